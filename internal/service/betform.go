package service

import (
	"context"
	"fmt"
	"strconv"

	"prediction-league/internal/model"
	"prediction-league/internal/repository"
)

// Field input kinds for bet form descriptors.
const (
	FieldChoice  = "choice"
	FieldNumber  = "number"
	FieldBoolean = "boolean"
)

// FieldOption is one selectable value of a choice field.
type FieldOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// FieldDescriptor describes one input of the bet form. The client renders
// inputs from these descriptors and submits raw string values keyed by Key.
type FieldDescriptor struct {
	Key          string        `json:"key"`
	Label        string        `json:"label"`
	Kind         string        `json:"kind"`
	RewardPoints int           `json:"reward_points"`
	Required     bool          `json:"required"`
	Options      []FieldOption `json:"options,omitempty"`
}

// BetForm is the full set of inputs for betting on one match: the winner
// pick plus one field per prediction criterion.
type BetForm struct {
	MatchID int64             `json:"match_id"`
	Winner  FieldDescriptor   `json:"winner"`
	Fields  []FieldDescriptor `json:"fields"`
}

// BetFormService builds typed input-field descriptors from a match's
// prediction set. Player-type predictions offer the two rosters as options;
// their submitted values are stringified player IDs, matching the exact
// comparison the scoring uses.
type BetFormService struct {
	matchRepo      *repository.MatchRepository
	predictionRepo *repository.PredictionRepository
	teamRepo       *repository.TeamRepository
}

// NewBetFormService creates a new BetFormService instance.
func NewBetFormService(
	matchRepo *repository.MatchRepository,
	predictionRepo *repository.PredictionRepository,
	teamRepo *repository.TeamRepository,
) *BetFormService {
	return &BetFormService{
		matchRepo:      matchRepo,
		predictionRepo: predictionRepo,
		teamRepo:       teamRepo,
	}
}

// BuildForm builds the bet form for a match.
func (s *BetFormService) BuildForm(ctx context.Context, matchID int64) (*BetForm, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.IsFinished {
		return nil, ErrMatchFinished
	}

	teams, err := s.teamRepo.GetTeams(ctx, match.TeamOneID, match.TeamTwoID)
	if err != nil {
		return nil, err
	}

	predictions, err := s.predictionRepo.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	form := &BetForm{
		MatchID: matchID,
		Winner:  winnerField(match, teams),
	}

	var playerOptions []FieldOption
	for _, p := range predictions {
		field, err := s.predictionField(ctx, match, p, &playerOptions)
		if err != nil {
			return nil, err
		}
		form.Fields = append(form.Fields, field)
	}

	return form, nil
}

// winnerField builds the winner pick: both teams plus the draw option,
// encoded the way bets store it.
func winnerField(match *model.Match, teams map[int64]*model.Team) FieldDescriptor {
	field := FieldDescriptor{
		Key:          "winner",
		Label:        "Predict the winner",
		Kind:         FieldChoice,
		RewardPoints: match.ScorePoints,
		Required:     true,
	}
	for _, id := range []int64{match.TeamOneID, match.TeamTwoID} {
		label := strconv.FormatInt(id, 10)
		if t, ok := teams[id]; ok {
			label = t.Name
		}
		field.Options = append(field.Options, FieldOption{
			Value: strconv.FormatInt(id, 10),
			Label: label,
		})
	}
	field.Options = append(field.Options, FieldOption{
		Value: strconv.FormatInt(model.DrawResult, 10),
		Label: "Draw",
	})
	return field
}

// predictionField maps one prediction criterion to its input descriptor.
// The roster options are loaded once and reused across player fields.
func (s *BetFormService) predictionField(ctx context.Context, match *model.Match, p *model.Prediction, playerOptions *[]FieldOption) (FieldDescriptor, error) {
	field := FieldDescriptor{
		Key:          fmt.Sprintf("prediction_%d", p.ID),
		Label:        fmt.Sprintf("%s (%d pts)", p.Label, p.ScorePoints),
		RewardPoints: p.ScorePoints,
	}

	switch p.PredictionType {
	case model.PredictionPlayer:
		field.Kind = FieldChoice
		if *playerOptions == nil {
			players, err := s.teamRepo.ListPlayersByTeams(ctx, match.TeamOneID, match.TeamTwoID)
			if err != nil {
				return FieldDescriptor{}, err
			}
			opts := make([]FieldOption, 0, len(players))
			for _, pl := range players {
				opts = append(opts, FieldOption{
					Value: strconv.FormatInt(pl.ID, 10),
					Label: playerLabel(pl),
				})
			}
			*playerOptions = opts
		}
		field.Options = *playerOptions
	case model.PredictionBoolean:
		field.Kind = FieldBoolean
		field.Options = []FieldOption{
			{Value: "true", Label: "Yes"},
			{Value: "false", Label: "No"},
		}
	default:
		field.Kind = FieldNumber
	}

	return field, nil
}

func playerLabel(p *model.Player) string {
	if p.Nickname != "" {
		return fmt.Sprintf("%s %s (%s)", p.FirstName, p.LastName, p.Nickname)
	}
	return fmt.Sprintf("%s %s", p.FirstName, p.LastName)
}
