package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-PhotoBookingService/internal/domain"
)

func TestInsertQuery(t *testing.T) {
	query, args, err := insertQuery(&domain.Message{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Subject: domain.DefaultMessageSubject,
		Body:    "Do you shoot weddings?",
		Status:  domain.MessageStatusNew,
	})
	require.NoError(t, err)

	assert.Equal(t,
		"INSERT INTO messages (name,email,phone,subject,message,status,ip_address,user_agent) "+
			"VALUES ($1,$2,$3,$4,$5,$6,$7,$8) RETURNING id, created_at",
		query)
	assert.Equal(t, []interface{}{
		"Jane Doe", "jane@example.com", "", domain.DefaultMessageSubject,
		"Do you shoot weddings?", domain.MessageStatusNew, "", "",
	}, args)
}
