package model

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestForeignKeysOnDelete(t *testing.T) {
	testCases := []struct {
		model    any
		relation string
		onDelete string
	}{
		{&Account{}, "User", "CASCADE"},
		{&Card{}, "Account", "CASCADE"},
		{&CardTransaction{}, "Card", "CASCADE"},
		{&CardTransaction{}, "Transaction", "CASCADE"},
		{&AccountLimit{}, "Account", "CASCADE"},
		{&TransactionLimit{}, "User", "CASCADE"},
		{&UserPreference{}, "User", "CASCADE"},
		{&RecurringTransaction{}, "User", "CASCADE"},
		{&Transaction{}, "FromAccount", "CASCADE"},
		{&Transaction{}, "ToAccount", "CASCADE"},
		{&Transaction{}, "Category", "SET NULL"},
		{&TransactionDispute{}, "Transaction", "CASCADE"},
	}

	cache := &sync.Map{}
	for _, tc := range testCases {
		s, err := schema.Parse(tc.model, cache, schema.NamingStrategy{})
		require.NoError(t, err)

		t.Run(s.Name+"."+tc.relation, func(t *testing.T) {
			rel, ok := s.Relationships.Relations[tc.relation]
			require.True(t, ok, "relation %s not found", tc.relation)

			constraint := rel.ParseConstraint()
			require.NotNil(t, constraint)
			assert.Equal(t, tc.onDelete, constraint.OnDelete)
		})
	}
}
