package ticket

import (
	"context"
	"errors"
	"testing"

	cfg "github.com/gitsherpa/gitsherpa/internal/config"
	domainErrors "github.com/gitsherpa/gitsherpa/internal/errors"
	"github.com/gitsherpa/gitsherpa/internal/i18n"
	"github.com/gitsherpa/gitsherpa/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockConventionService struct {
	mock.Mock
}

func (m *MockConventionService) TicketFromBranch(ctx context.Context) (models.TicketRef, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.TicketRef), args.Error(1)
}

type MockTicketInfoService struct {
	mock.Mock
}

func (m *MockTicketInfoService) GetTicketInfo(ctx context.Context, ref models.TicketRef) (*models.TicketInfo, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TicketInfo), args.Error(1)
}

func setupTicketTest(t *testing.T) (*i18n.Translations, *cfg.Config) {
	translations, err := i18n.NewTranslations("en")
	require.NoError(t, err)
	return translations, &cfg.Config{Language: "en"}
}

func TestTicketCommand(t *testing.T) {
	t.Run("should print the derived ticket", func(t *testing.T) {
		// Arrange
		translations, config := setupTicketTest(t)

		service := new(MockConventionService)
		service.On("TicketFromBranch", mock.Anything).Return(models.TicketRef("TITAN-149"), nil)

		cmd := NewCommandFactory(service, nil).CreateCommand(translations, config)

		// Act
		err := cmd.Run(context.Background(), []string{"ticket"})

		// Assert
		assert.NoError(t, err)
		service.AssertExpectations(t)
	})

	t.Run("should look up details when requested", func(t *testing.T) {
		// Arrange
		translations, config := setupTicketTest(t)

		service := new(MockConventionService)
		service.On("TicketFromBranch", mock.Anything).Return(models.TicketRef("TITAN-149"), nil)

		tracker := new(MockTicketInfoService)
		tracker.On("GetTicketInfo", mock.Anything, models.TicketRef("TITAN-149")).
			Return(&models.TicketInfo{Key: "TITAN-149", Title: "Scrub PII from exports"}, nil)

		cmd := NewCommandFactory(service, tracker).CreateCommand(translations, config)

		// Act
		err := cmd.Run(context.Background(), []string{"ticket", "--details"})

		// Assert
		assert.NoError(t, err)
		tracker.AssertExpectations(t)
	})

	t.Run("should fail when the branch carries no ticket", func(t *testing.T) {
		// Arrange
		translations, config := setupTicketTest(t)

		service := new(MockConventionService)
		service.On("TicketFromBranch", mock.Anything).
			Return(models.TicketRef(""), domainErrors.ErrNoBranch)

		cmd := NewCommandFactory(service, nil).CreateCommand(translations, config)

		// Act
		err := cmd.Run(context.Background(), []string{"ticket"})

		// Assert
		assert.True(t, errors.Is(err, domainErrors.ErrNoBranch))
	})
}
