package cli

import (
	"context"
	"fmt"
	"strings"
)

// Share requests a share link for a watchlist and prints it.
func (a *App) Share(ctx context.Context, id, email string) error {
	link, err := a.shareService.Share(ctx, id, email)
	if err != nil {
		a.log.Error(ctx, "failed to share watchlist", "error", err)
		return err
	}
	fmt.Println("Share link:", link)
	return nil
}

// Open imports a shared watchlist by its token into the current account.
func (a *App) Open(ctx context.Context, otp string) error {
	w, err := a.shareService.Resolve(ctx, otp)
	if err != nil {
		a.log.Error(ctx, "failed to open shared watchlist", "error", err)
		return err
	}
	fmt.Printf("Imported %s (%s) [%s]\n", w.Name, w.ID, strings.Join(w.Symbols, ", "))
	return nil
}

// News prints the latest articles for a ticker symbol.
func (a *App) News(ctx context.Context, symbol string) error {
	news, err := a.newsService.BySymbol(ctx, symbol)
	if err != nil {
		a.log.Error(ctx, "failed to fetch news", "symbol", symbol, "error", err)
		return err
	}
	if len(news.Articles) == 0 {
		fmt.Println("No news for", symbol)
		return nil
	}
	for _, art := range news.Articles {
		fmt.Printf("- %s\n", art.Title)
		if art.URL != "" {
			fmt.Printf("  %s\n", art.URL)
		}
	}
	return nil
}
