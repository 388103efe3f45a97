package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sells-group/leadaudit/internal/audit"
	"github.com/sells-group/leadaudit/internal/model"
)

var replyCmd = &cobra.Command{
	Use:   "reply",
	Short: "Draft owner replies to a review",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := cfg.Validate("reply"); err != nil {
			return err
		}

		req := audit.ReplyRequest{}
		req.ReviewID, _ = cmd.Flags().GetString("review-id")
		req.Author, _ = cmd.Flags().GetString("author")
		req.ReviewText, _ = cmd.Flags().GetString("text")
		req.BusinessName, _ = cmd.Flags().GetString("business")
		sentiment, _ := cmd.Flags().GetString("sentiment")
		req.Sentiment = model.Sentiment(sentiment)

		client, err := newAnalysisClient(cmd.Context())
		if err != nil {
			return err
		}
		drafts, err := audit.NewService(client).DraftReviewReplies(cmd.Context(), req)
		if err != nil {
			return err
		}

		for i, d := range drafts {
			fmt.Fprintf(os.Stdout, "%d. %s\n\n", i+1, d)
		}
		return nil
	},
}

func init() {
	replyCmd.Flags().String("review-id", "", "review identifier")
	replyCmd.Flags().String("author", "", "review author")
	replyCmd.Flags().String("sentiment", string(model.SentimentNeutral), "positive, negative or neutral")
	replyCmd.Flags().String("text", "", "review text")
	replyCmd.Flags().String("business", "", "business name to sign replies with")
	rootCmd.AddCommand(replyCmd)
}
