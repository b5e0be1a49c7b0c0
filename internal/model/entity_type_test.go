package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntityType(t *testing.T) {
	et, err := ParseEntityType("partners")
	require.NoError(t, err)
	assert.Equal(t, EntityTypePartners, et)

	et, err = ParseEntityType("trade_types")
	require.NoError(t, err)
	assert.Equal(t, EntityTypeTradeTypes, et)

	_, err = ParseEntityType("invoices")
	assert.Error(t, err)

	_, err = ParseEntityType("")
	assert.Error(t, err)
}

func TestEntityType_Table(t *testing.T) {
	assert.Equal(t, "sync_partners", EntityTypePartners.Table())
	assert.Equal(t, "sync_trade_types", EntityTypeTradeTypes.Table())
	assert.Equal(t, "", EntityType("bogus").Table())
}
