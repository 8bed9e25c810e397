package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateNationalID(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		wantKind ErrorKind
	}{
		{name: "11 digits should pass", id: "12345678910"},
		{name: "all zeros should pass", id: "00000000000"},
		{name: "empty should fail as required", id: "", wantKind: KindRequiredField},
		{name: "10 digits should fail", id: "1234567891", wantKind: KindFormat},
		{name: "12 digits should fail", id: "123456789101", wantKind: KindFormat},
		{name: "letter should fail", id: "1234567891a", wantKind: KindFormat},
		{name: "punctuation should fail", id: "123.456.789-10", wantKind: KindFormat},
		{name: "non-ASCII digit should fail", id: "1234567891٣", wantKind: KindFormat},
		{name: "spaces should fail", id: " 2345678910 ", wantKind: KindFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNationalID(tt.id)
			if tt.wantKind == "" {
				assert.Nil(t, err)
				return
			}
			if assert.NotNil(t, err) {
				assert.Equal(t, tt.wantKind, err.Kind)
				assert.Equal(t, "cpf", err.Field)
			}
		})
	}
}

func TestPerson_Validate(t *testing.T) {
	birth := time.Date(1999, 10, 10, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		person     Person
		wantFields []string
	}{
		{
			name:   "Valid person should pass",
			person: Person{Name: "João", NationalID: "12345678910", BirthDate: birth},
		},
		{
			name:       "Empty name should fail",
			person:     Person{Name: "  ", NationalID: "12345678910", BirthDate: birth},
			wantFields: []string{"nome"},
		},
		{
			name:       "Long name should fail",
			person:     Person{Name: string(make([]byte, 51)), NationalID: "12345678910", BirthDate: birth},
			wantFields: []string{"nome"},
		},
		{
			name:       "Every field missing reports all of them",
			person:     Person{},
			wantFields: []string{"nome", "cpf", "dataNascimento"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.person.Validate()
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}
			var fe FieldErrors
			if assert.ErrorAs(t, err, &fe) {
				fields := make([]string, 0, len(fe))
				for _, e := range fe {
					fields = append(fields, e.Field)
				}
				assert.Equal(t, tt.wantFields, fields)
			}
		})
	}
}
