package ports

import (
	"context"

	"vexal/internal/domain/lore"
)

type LoreSource interface {
	Load(ctx context.Context) (lore.Book, error)
}
