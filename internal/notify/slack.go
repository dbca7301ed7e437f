package notify

import (
	"fmt"
	"log"

	"github.com/slack-go/slack"
)

// Notifier posts sync summaries to a Slack channel. A nil Notifier is
// valid and posts nothing, so callers never need to branch on whether
// Slack is configured.
type Notifier struct {
	api       *slack.Client
	channelID string
}

func New(botToken, channelID string) *Notifier {
	if botToken == "" || channelID == "" {
		return nil
	}
	return &Notifier{
		api:       slack.New(botToken),
		channelID: channelID,
	}
}

// PostSyncSummary posts a sync summary to the report channel. Post
// failures are logged, not returned: a Slack outage must never fail
// a sync run.
func (n *Notifier) PostSyncSummary(summary string) {
	if n == nil {
		return
	}
	_, _, err := n.api.PostMessage(n.channelID, slack.MsgOptionText(
		fmt.Sprintf("Staff directory sync complete: %s", summary), false))
	if err != nil {
		log.Printf("[notify] Sync summary post error: %v", err)
	}
}
