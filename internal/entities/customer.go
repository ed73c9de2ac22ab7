package entities

import "fmt"

// Customer represents a bank customer loaded from customers.csv
type Customer struct {
	ID   string // Customer ID (e.g., "C1")
	Name string // Display name (e.g., "Alice")
}

// String returns a string representation of the customer
// Format: customer:id(name)
func (c *Customer) String() string {
	return fmt.Sprintf("customer:%s(%s)", c.ID, c.Name)
}

// Validate checks if the customer is valid
func (c *Customer) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("customer ID is required")
	}
	if c.Name == "" {
		return fmt.Errorf("customer name is required")
	}
	return nil
}
