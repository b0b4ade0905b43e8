package i18n

import (
	"sort"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTranslations(t *testing.T) {
	t.Run("loads every embedded locale", func(t *testing.T) {
		trans, err := NewTranslations("en")
		require.NoError(t, err)

		tags := make([]string, 0)
		for _, tag := range trans.bundle.LanguageTags() {
			tags = append(tags, tag.String())
		}
		assert.ElementsMatch(t, []string{"en", "es", "fr"}, tags)
	})

	t.Run("rejects an empty language", func(t *testing.T) {
		_, err := NewTranslations("")
		assert.Error(t, err)
	})

	t.Run("rejects an invalid tag", func(t *testing.T) {
		_, err := NewTranslations("not a tag!")
		assert.Error(t, err)
	})

	t.Run("unknown language falls back to english", func(t *testing.T) {
		trans, err := NewTranslations("de")
		require.NoError(t, err)

		assert.Equal(t, "Operation canceled", trans.GetMessage("commit.operation_canceled", 0, nil))
	})
}

func TestGetMessage(t *testing.T) {
	t.Run("localized message", func(t *testing.T) {
		trans, err := NewTranslations("es")
		require.NoError(t, err)

		assert.Equal(t, "Operación cancelada", trans.GetMessage("commit.operation_canceled", 0, nil))
	})

	t.Run("template data", func(t *testing.T) {
		trans, err := NewTranslations("en")
		require.NoError(t, err)

		msg := trans.GetMessage("push.done", 0, map[string]interface{}{"Remote": "origin", "Branch": "main"})
		assert.Equal(t, "Pushed to origin/main", msg)
	})

	t.Run("missing message", func(t *testing.T) {
		trans, err := NewTranslations("en")
		require.NoError(t, err)

		assert.Equal(t, "Translation missing: NonExistent", trans.GetMessage("NonExistent", 0, nil))
	})
}

func TestSetLanguage(t *testing.T) {
	trans, err := NewTranslations("en")
	require.NoError(t, err)

	require.NoError(t, trans.SetLanguage("fr"))
	assert.Equal(t, "Opération annulée", trans.GetMessage("commit.operation_canceled", 0, nil))

	assert.Error(t, trans.SetLanguage("pt"))
	assert.Equal(t, "Opération annulée", trans.GetMessage("commit.operation_canceled", 0, nil))
}

func TestLocalesDefineTheSameMessages(t *testing.T) {
	keys := func(file string) []string {
		data, err := localeFS.ReadFile(file)
		require.NoError(t, err)
		var messages map[string]string
		require.NoError(t, toml.Unmarshal(data, &messages))
		out := make([]string, 0, len(messages))
		for k := range messages {
			out = append(out, k)
		}
		sort.Strings(out)
		return out
	}

	reference := keys(localeFiles[0])
	require.NotEmpty(t, reference)
	for _, file := range localeFiles[1:] {
		assert.Equal(t, reference, keys(file), file)
	}
}
