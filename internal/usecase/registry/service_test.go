package registry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/josevenzke/bank-api/internal/domain"
)

// MockPersonRepository is a mock implementation of PersonRepository for testing
type MockPersonRepository struct {
	mock.Mock
}

func (m *MockPersonRepository) Create(ctx context.Context, person *domain.Person) error {
	args := m.Called(ctx, person)
	return args.Error(0)
}

func (m *MockPersonRepository) GetByID(ctx context.Context, id int64) (*domain.Person, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Person), args.Error(1)
}

func (m *MockPersonRepository) List(ctx context.Context) ([]*domain.Person, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Person), args.Error(1)
}

func (m *MockPersonRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func fieldKinds(t *testing.T, err error) map[string]domain.ErrorKind {
	t.Helper()
	var fe domain.FieldErrors
	require.ErrorAs(t, err, &fe)
	out := make(map[string]domain.ErrorKind, len(fe))
	for _, e := range fe {
		out[e.Field] = e.Kind
	}
	return out
}

func TestRegister_StandardFlow(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockPersonRepository)
	service := NewRegistryService(mockRepo)

	mockRepo.On("Create", ctx, mock.MatchedBy(func(p *domain.Person) bool {
		return p.Name == "João" &&
			p.NationalID == "12345678910" &&
			p.BirthDate.Equal(time.Date(1999, 10, 10, 0, 0, 0, 0, time.UTC))
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Person).ID = 1
	}).Return(nil)

	person, err := service.Register(ctx, RegisterInput{Name: " João ", NationalID: "12345678910", BirthDate: "1999-10-10"})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), person.ID)
	assert.Equal(t, "João", person.Name)
	mockRepo.AssertExpectations(t)
}

func TestRegister_ValidationFailures(t *testing.T) {
	tests := []struct {
		name  string
		input RegisterInput
		want  map[string]domain.ErrorKind
	}{
		{
			name:  "short national id",
			input: RegisterInput{Name: "João", NationalID: "1234567891", BirthDate: "1999-10-10"},
			want:  map[string]domain.ErrorKind{"cpf": domain.KindFormat},
		},
		{
			name:  "non-digit national id",
			input: RegisterInput{Name: "João", NationalID: "1234567891x", BirthDate: "1999-10-10"},
			want:  map[string]domain.ErrorKind{"cpf": domain.KindFormat},
		},
		{
			name:  "malformed birth date",
			input: RegisterInput{Name: "João", NationalID: "12345678910", BirthDate: "10/10/1999"},
			want:  map[string]domain.ErrorKind{"dataNascimento": domain.KindFormat},
		},
		{
			name:  "everything missing",
			input: RegisterInput{},
			want: map[string]domain.ErrorKind{
				"nome":           domain.KindRequiredField,
				"cpf":            domain.KindRequiredField,
				"dataNascimento": domain.KindRequiredField,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockPersonRepository)
			service := NewRegistryService(mockRepo)

			person, err := service.Register(context.Background(), tt.input)

			assert.Nil(t, person)
			assert.Equal(t, tt.want, fieldKinds(t, err))
			mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestRegister_DuplicateNationalID(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockPersonRepository)
	service := NewRegistryService(mockRepo)

	mockRepo.On("Create", ctx, mock.Anything).Return(fmt.Errorf("failed to create person: %w", domain.ErrDuplicateNationalID))

	_, err := service.Register(ctx, RegisterInput{Name: "Maria", NationalID: "12345678910", BirthDate: "1990-01-01"})

	assert.Equal(t, map[string]domain.ErrorKind{"cpf": domain.KindUniqueness}, fieldKinds(t, err))
}

func TestRegister_StoreFailureIsNotValidation(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockPersonRepository)
	service := NewRegistryService(mockRepo)

	mockRepo.On("Create", ctx, mock.Anything).Return(errors.New("connection refused"))

	_, err := service.Register(ctx, RegisterInput{Name: "Maria", NationalID: "12345678910", BirthDate: "1990-01-01"})

	assert.Error(t, err)
	assert.False(t, domain.IsValidation(err))
}

func TestGet_NotFound(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockPersonRepository)
	service := NewRegistryService(mockRepo)

	mockRepo.On("GetByID", ctx, int64(9)).Return(nil, fmt.Errorf("person 9: %w", domain.ErrNotFound))

	_, err := service.Get(ctx, 9)

	assert.ErrorIs(t, err, domain.ErrNotFound)
	mockRepo.AssertExpectations(t)
}
