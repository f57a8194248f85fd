package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string `json:"name" validate:"required,min=2"`
	Phone   string `json:"phone" validate:"required,phone10"`
	Email   string `json:"email" validate:"omitempty,storeemail"`
	Pincode string `json:"pincode" validate:"omitempty,pincode"`
}

func TestStruct(t *testing.T) {
	v := New()

	require.NoError(t, v.Struct(sample{Name: "Ravi", Phone: "9999999999", Email: "ravi@farm.in", Pincode: "411001"}))

	tests := []struct {
		name string
		in   sample
		want string
	}{
		{"missing name", sample{Phone: "9999999999"}, "name is required"},
		{"short phone", sample{Name: "Ravi", Phone: "12345"}, "Please provide a valid 10-digit phone number"},
		{"bad email", sample{Name: "Ravi", Phone: "9999999999", Email: "ravi@"}, "Please provide a valid email"},
		{"bad pincode", sample{Name: "Ravi", Phone: "9999999999", Pincode: "41100"}, "Please provide a valid 6-digit pincode"},
		{"short name", sample{Name: "R", Phone: "9999999999"}, "name must be at least 2"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(tc.in)
			require.Error(t, err)
			assert.Equal(t, tc.want, err.Error())
		})
	}
}

func TestCleanPhone(t *testing.T) {
	assert.Equal(t, "9999999999", CleanPhone("+(99) 999-999 999"))
	assert.True(t, ValidPhone(CleanPhone("99999 99999")))
	assert.False(t, ValidPhone(CleanPhone("+91 99999 99999")))
}

func TestEmail(t *testing.T) {
	assert.Equal(t, "a.b@x.com", NormalizeEmail("  A.B@X.com "))
	assert.True(t, ValidEmail("a.b@x.com"))
	assert.False(t, ValidEmail("a b@x.com"))
	assert.False(t, ValidEmail("ab@x.company"))
}
