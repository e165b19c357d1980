package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTranslations(t *testing.T) {
	t.Run("should create translations with embedded defaults", func(t *testing.T) {
		// Act
		trans, err := NewTranslations("en")

		// Assert
		require.NoError(t, err)
		require.NotNil(t, trans)
	})
}

func TestSetLanguage(t *testing.T) {
	t.Run("should accept the default language", func(t *testing.T) {
		// Arrange
		trans, err := NewTranslations("en")
		require.NoError(t, err)

		// Act
		err = trans.SetLanguage("en")

		// Assert
		assert.NoError(t, err)
	})

	t.Run("should fail for an unsupported language", func(t *testing.T) {
		// Arrange
		trans, err := NewTranslations("en")
		require.NoError(t, err)

		// Act
		err = trans.SetLanguage("fr")

		// Assert
		assert.Error(t, err)
	})
}

func TestGetMessage(t *testing.T) {
	t.Run("should resolve a plain message", func(t *testing.T) {
		// Arrange
		trans, err := NewTranslations("en")
		require.NoError(t, err)

		// Act
		result := trans.GetMessage("config_saved", 0, nil)

		// Assert
		assert.Equal(t, "Configuration saved", result)
	})

	t.Run("should render template data", func(t *testing.T) {
		// Arrange
		trans, err := NewTranslations("en")
		require.NoError(t, err)

		// Act
		result := trans.GetMessage("ticket_detected", 0, map[string]interface{}{
			"Ticket": "TITAN-149",
		})

		// Assert
		assert.Equal(t, "Ticket: TITAN-149", result)
	})

	t.Run("should pluralize attempt counts", func(t *testing.T) {
		// Arrange
		trans, err := NewTranslations("en")
		require.NoError(t, err)

		// Act
		singular := trans.GetMessage("attempts_made", 1, map[string]interface{}{"Count": 1})
		plural := trans.GetMessage("attempts_made", 3, map[string]interface{}{"Count": 3})

		// Assert
		assert.Equal(t, "1 attempt made", singular)
		assert.Equal(t, "3 attempts made", plural)
	})

	t.Run("should report missing messages", func(t *testing.T) {
		// Arrange
		trans, err := NewTranslations("en")
		require.NoError(t, err)

		// Act
		result := trans.GetMessage("does_not_exist", 0, nil)

		// Assert
		assert.Equal(t, "Translation missing: does_not_exist", result)
	})
}
