package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/stocksentry/internal/client/client"
	"github.com/dmitrijs2005/stocksentry/internal/client/models"
)

// NewsService fetches news per ticker symbol. A plain remote read, outside
// reconciliation: there is no offline fallback for news.
type NewsService interface {
	BySymbol(ctx context.Context, symbol string) (*models.NewsResponse, error)
}

type newsService struct {
	client client.Client
}

// NewNewsService constructs a NewsService over the API client.
func NewNewsService(apiClient client.Client) NewsService {
	return &newsService{client: apiClient}
}

func (s *newsService) BySymbol(ctx context.Context, symbol string) (*models.NewsResponse, error) {
	news, err := s.client.GetNews(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("error fetching news: %w", err)
	}
	return news, nil
}
