package models

// Client is the customer being billed. The NIT is its tax identifier.
type Client struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	TaxID string `json:"nit,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// PhoneOrDash is what list views print when no phone is on record.
func (c Client) PhoneOrDash() string {
	if c.Phone == "" {
		return "-"
	}
	return c.Phone
}
