package numerator

// MockGenerator is a test implementation of Generator.
// Use in unit tests to pin identifiers regardless of the pool.
type MockGenerator struct {
	PeriodKeyFunc          func(kind Kind) string
	GenerateOrderIDFunc    func(existing []string, fullName, phoneNumber string) (string, error)
	GenerateCustomerIDFunc func(existing []string) (string, error)
}

// PeriodKey implements Generator.
func (m *MockGenerator) PeriodKey(kind Kind) string {
	if m.PeriodKeyFunc != nil {
		return m.PeriodKeyFunc(kind)
	}
	if kind == KindCustomer {
		return "PXC202601"
	}
	return "260101"
}

// GenerateOrderID implements Generator.
func (m *MockGenerator) GenerateOrderID(existing []string, fullName, phoneNumber string) (string, error) {
	if m.GenerateOrderIDFunc != nil {
		return m.GenerateOrderIDFunc(existing, fullName, phoneNumber)
	}
	// Default: return predictable mock identifier
	return "26010101MX000", nil
}

// GenerateCustomerID implements Generator.
func (m *MockGenerator) GenerateCustomerID(existing []string) (string, error) {
	if m.GenerateCustomerIDFunc != nil {
		return m.GenerateCustomerIDFunc(existing)
	}
	return "PXC2026010001", nil
}

// Ensure compile-time interface compliance.
var _ Generator = (*MockGenerator)(nil)
