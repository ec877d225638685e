package message

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/m04kA/SMC-PhotoBookingService/internal/domain"
	"github.com/m04kA/SMC-PhotoBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-PhotoBookingService/pkg/psqlbuilder"
)

const table = "messages"

// Repository репозиторий сообщений из контактной формы
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория сообщений
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет сообщение и заполняет ID и created_at
func (r *Repository) Create(ctx context.Context, msg *domain.Message) (*domain.Message, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if msg.Status == "" {
		msg.Status = domain.MessageStatusNew
	}

	query, args, err := insertQuery(msg)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&msg.ID, &createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	msg.CreatedAt = createdAt.Time

	return msg, nil
}

func insertQuery(msg *domain.Message) (string, []interface{}, error) {
	return psqlbuilder.Insert(table).
		Columns(
			"name",
			"email",
			"phone",
			"subject",
			"message",
			"status",
			"ip_address",
			"user_agent",
		).
		Values(
			msg.Name,
			msg.Email,
			msg.Phone,
			msg.Subject,
			msg.Body,
			msg.Status,
			msg.IPAddress,
			msg.UserAgent,
		).
		Suffix("RETURNING id, created_at").
		ToSql()
}
