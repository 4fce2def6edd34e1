// Command feedback-export prints all stored feedback, newest first.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/zekrotja/hermans/internal/config"
	"github.com/zekrotja/hermans/internal/logger"
	"github.com/zekrotja/hermans/internal/model"
	"github.com/zekrotja/hermans/internal/orders"
	"github.com/zekrotja/hermans/internal/postgres"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New(cfg.ServiceName+"-feedback-export", cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN, cfg.ServiceName+"-feedback-export")
	if err != nil {
		log.Error("db connect failed", logger.Err(err))
		os.Exit(1)
	}
	defer db.Close()

	fbs, err := (&orders.Repo{DB: db}).ListFeedback(ctx)
	if err != nil {
		log.Error("listing feedback failed", logger.Err(err))
		os.Exit(1)
	}
	writeFeedback(os.Stdout, fbs)
}

func writeFeedback(w io.Writer, fbs []*model.Feedback) {
	if len(fbs) == 0 {
		fmt.Fprintln(w, "No feedback has been submitted yet.")
		return
	}
	for _, fb := range fbs {
		fmt.Fprintf(w, "[%s] [%s] on %s: %s\n",
			fb.Timestamp.Format("2006-01-02 15:04"), fb.Type, fb.Page, fb.Message)
	}
}
