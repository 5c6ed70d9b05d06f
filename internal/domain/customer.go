package domain

// CustomerInfo содержит контактные данные покупателя на момент оформления заказа.
type CustomerInfo struct {
	Name    string
	Phone   string
	Address string
	// Координаты доставки опциональны: nil означает, что геолокацию
	// определить не удалось или покупатель её не предоставил.
	Latitude  *float64
	Longitude *float64
}

// Validate проверяет обязательные поля в порядке: имя, телефон, адрес.
// Возвращается первая найденная ошибка.
func (c *CustomerInfo) Validate() error {
	if c.Name == "" {
		return ErrNameRequired
	}
	if c.Phone == "" {
		return ErrPhoneRequired
	}
	if c.Address == "" {
		return ErrAddressRequired
	}
	return nil
}

// HasCoordinates сообщает, заданы ли обе координаты.
func (c *CustomerInfo) HasCoordinates() bool {
	return c.Latitude != nil && c.Longitude != nil
}
