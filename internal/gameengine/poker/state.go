package poker

import "github.com/mhurst/piznac-games-sub001/internal/cardtypes"

type Variant string

const (
	VariantDraw         Variant = "5-card-draw"
	VariantStud         Variant = "7-card-stud"
	VariantHoldem       Variant = "texas-holdem"
	VariantFollowQueen  Variant = "follow-the-queen"
)

func (v Variant) AllowsWilds() bool {
	return v != VariantHoldem
}

type Phase string

const (
	PhaseVariantSelect Phase = "variant-select"
	PhaseWildSelect    Phase = "wild-select"
	PhaseAnte          Phase = "ante"
	PhaseBetting       Phase = "betting"
	PhaseDraw          Phase = "draw"
	PhaseShowdown      Phase = "showdown"
	PhaseSettlement    Phase = "settlement"
)

const (
	StartingChips = 1000
	Ante          = 1
	SmallBlind    = 1
	BigBlind      = 2
	MinBet        = 5
)

// PlayerState is one seat's per-hand and running chip state.
type PlayerState struct {
	ID                  string
	Chips               int
	Hand                []cardtypes.Card
	Bet                 int
	TotalBet            int
	Folded              bool
	AllIn               bool
	HasActed            bool
	Eliminated          bool
	Result              string // "win" | "split" | "lose" | ""
	Payout              int
	ConsecutiveTimeouts int
	SittingOut          bool
}

// PublicPlayerView is the redacted per-viewer projection of PlayerState.
type PublicPlayerView struct {
	ID         string           `json:"id"`
	Chips      int              `json:"chips"`
	Hand       []cardtypes.Card `json:"hand,omitempty"`
	Bet        int              `json:"bet"`
	TotalBet   int              `json:"totalBet"`
	Folded     bool             `json:"folded"`
	AllIn      bool             `json:"allIn"`
	HasActed   bool             `json:"hasActed"`
	Eliminated bool             `json:"eliminated"`
	Result     string           `json:"result,omitempty"`
	Payout     int              `json:"payout,omitempty"`
	SittingOut bool             `json:"sittingOut,omitempty"`
}

// PublicState is the full per-viewer GameState snapshot.
type PublicState struct {
	Phase          Phase               `json:"phase"`
	Variant        Variant             `json:"variant,omitempty"`
	Wilds          []string            `json:"wilds,omitempty"`
	DealerID       string              `json:"dealerId,omitempty"`
	CurrentActorID string              `json:"currentActorId,omitempty"`
	Players        []PublicPlayerView  `json:"players"`
	CommunityCards []cardtypes.Card    `json:"communityCards,omitempty"`
	CurrentBet     int                 `json:"currentBet"`
	MinRaise       int                 `json:"minRaise"`
	Pot            Pot                 `json:"pot"`
	WonByFold      bool                `json:"wonByFold,omitempty"`
	HandNumber     int                 `json:"handNumber"`
	GameOver       bool                `json:"gameOver"`
	WinnerID       string              `json:"winnerId,omitempty"`
}
