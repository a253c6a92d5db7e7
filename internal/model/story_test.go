package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nineties-server/internal/model"
)

func TestJoinSplitProtagonists(t *testing.T) {
	t.Run("round trip preserves order", func(t *testing.T) {
		names := []string{"Alex", "Karla", "Rafa"}
		stored := model.JoinProtagonists(names)
		assert.Equal(t, "Alex, Karla, Rafa", stored)
		assert.Equal(t, names, model.SplitProtagonists(stored))
	})

	t.Run("single name", func(t *testing.T) {
		assert.Equal(t, []string{"Hugo"}, model.SplitProtagonists("Hugo"))
	})

	t.Run("empty column yields empty slice", func(t *testing.T) {
		assert.Empty(t, model.SplitProtagonists(""))
		assert.NotNil(t, model.SplitProtagonists(""))
	})
}
