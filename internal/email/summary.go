package email

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fieldhouse/fieldhouse/internal/models"
	"github.com/fieldhouse/fieldhouse/internal/store"
)

const notifyTimeout = 10 * time.Second

// ResultNotifier emails a coach a plain-text summary after a game is
// completed. Delivery is best effort: failures are logged, never returned to
// the request that triggered them.
type ResultNotifier struct {
	sender Sender
	teams  *store.TeamStore
	games  *store.GameStore
}

func NewResultNotifier(sender Sender, teams *store.TeamStore, games *store.GameStore) *ResultNotifier {
	return &ResultNotifier{sender: sender, teams: teams, games: games}
}

// NotifyGameCompleted loads the completed game and emails the team's coach.
// Teams without a coach email are skipped silently.
func (n *ResultNotifier) NotifyGameCompleted(ctx context.Context, gameID int64) {
	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	game, err := n.games.GetGame(ctx, gameID)
	if err != nil {
		log.Error().Err(err).Int64("game_id", gameID).Msg("Result notification: failed to load game")
		return
	}
	team, err := n.teams.GetTeam(ctx, game.TeamID)
	if err != nil {
		log.Error().Err(err).Int64("team_id", game.TeamID).Msg("Result notification: failed to load team")
		return
	}
	if !team.CoachEmail.Valid || team.CoachEmail.String == "" {
		return
	}

	subject, body := BuildSummary(team, game)
	if err := n.sender.Send(ctx, team.CoachEmail.String, subject, body); err != nil {
		log.Error().Err(err).Int64("game_id", gameID).Msg("Result notification: send failed")
		return
	}
	log.Info().Int64("game_id", gameID).Str("recipient", team.CoachEmail.String).Msg("Result notification sent")
}

// BuildSummary renders the subject and plain-text body for a completed game.
func BuildSummary(team *models.Team, game *models.Game) (subject, body string) {
	outcome := game.Outcome.String
	scoreline := fmt.Sprintf("%d-%d", game.OurPoints.Int64, game.TheirPoints.Int64)

	switch outcome {
	case "win":
		subject = fmt.Sprintf("%s beat %s %s", team.Name, game.OpponentName, scoreline)
	case "loss":
		subject = fmt.Sprintf("%s fell to %s %s", team.Name, game.OpponentName, scoreline)
	case "tie":
		subject = fmt.Sprintf("%s tied %s %s", team.Name, game.OpponentName, scoreline)
	default:
		subject = fmt.Sprintf("%s vs %s: final %s", team.Name, game.OpponentName, scoreline)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Final: %s vs %s\n", team.Name, game.OpponentName)
	fmt.Fprintf(&b, "Score: %s (differential %+d)\n", scoreline, game.PointDifferential.Int64)
	if game.OurSetsWon.Valid && (game.OurSetsWon.Int64 > 0 || game.TheirSetsWon.Int64 > 0) {
		fmt.Fprintf(&b, "Sets: %d-%d\n", game.OurSetsWon.Int64, game.TheirSetsWon.Int64)
	}
	if game.Notes.Valid && game.Notes.String != "" {
		fmt.Fprintf(&b, "\nCoach notes:\n%s\n", game.Notes.String)
	}
	return subject, b.String()
}
