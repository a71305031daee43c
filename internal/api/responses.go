package api

import (
	"github.com/lmercier/giftpool/internal/calculator"
	"github.com/lmercier/giftpool/internal/models"
	"github.com/lmercier/giftpool/internal/service"
)

// Response DTOs. Domain models stay free of JSON concerns; this file maps
// them to the wire shapes.

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toUserResponse(u models.UserRef) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

type eventResponse struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	InvitationCode string `json:"invitation_code"`
	CreatorID      string `json:"creator_id"`
	IsCreator      bool   `json:"is_creator"`
	CreatedAt      int64  `json:"created_at"`
}

func toEventResponse(e *models.Event) eventResponse {
	return eventResponse{
		ID:             e.ID,
		Title:          e.Title,
		Description:    e.Description,
		InvitationCode: e.InvitationCode,
		CreatorID:      e.CreatorID,
		IsCreator:      e.IsCreator,
		CreatedAt:      e.CreatedAt,
	}
}

type participantResponse struct {
	User     userResponse `json:"user"`
	JoinedAt int64        `json:"joined_at"`
}

type eventDetailResponse struct {
	eventResponse
	Participants []participantResponse `json:"participants"`
}

func toEventDetailResponse(d *service.EventDetail) eventDetailResponse {
	resp := eventDetailResponse{
		eventResponse: toEventResponse(d.Event),
		Participants:  make([]participantResponse, len(d.Participants)),
	}
	for i, p := range d.Participants {
		resp.Participants[i] = participantResponse{User: toUserResponse(p.User), JoinedAt: p.JoinedAt}
	}
	return resp
}

type contributionResponse struct {
	ID          string         `json:"id"`
	ItemID      string         `json:"item_id"`
	UserID      string         `json:"user_id"`
	Amount      float64        `json:"amount"`
	TotalPrice  float64        `json:"total_price,omitempty"`
	Type        string       `json:"type"`
	HasAdvanced bool         `json:"has_advanced"`
	Note        string       `json:"note,omitempty"`
	User        userResponse `json:"user"`
	ItemTitle   string       `json:"item_title,omitempty"`
	ListID      string       `json:"list_id,omitempty"`
	EventID     string       `json:"event_id,omitempty"`
	CreatedAt   int64        `json:"created_at"`
	UpdatedAt   int64        `json:"updated_at"`
}

func toContributionResponse(c *models.Contribution) contributionResponse {
	return contributionResponse{
		ID:          c.ID,
		ItemID:      c.ItemID,
		UserID:      c.UserID,
		Amount:      c.Amount,
		TotalPrice:  c.TotalPrice,
		Type:        string(c.Type),
		HasAdvanced: c.HasAdvanced,
		Note:        c.Note,
		User:        toUserResponse(c.User),
		ItemTitle:   c.ItemTitle,
		ListID:      c.ListID,
		EventID:     c.EventID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func toContributionResponses(cs []models.Contribution) []contributionResponse {
	out := make([]contributionResponse, len(cs))
	for i := range cs {
		out[i] = toContributionResponse(&cs[i])
	}
	return out
}

type itemResponse struct {
	ID            string                 `json:"id"`
	ListID        string                 `json:"list_id"`
	Title         string                 `json:"title"`
	Description   string                 `json:"description,omitempty"`
	URL           string                 `json:"url,omitempty"`
	IsBonus       bool                   `json:"is_bonus"`
	AddedByUserID string                 `json:"added_by_user_id"`
	Contributions []contributionResponse `json:"contributions,omitempty"`
	CreatedAt     int64                  `json:"created_at"`
	UpdatedAt     int64                  `json:"updated_at"`
}

func toItemResponse(item *models.Item) itemResponse {
	return itemResponse{
		ID:            item.ID,
		ListID:        item.ListID,
		Title:         item.Title,
		Description:   item.Description,
		URL:           item.URL,
		IsBonus:       item.IsBonus,
		AddedByUserID: item.AddedByUserID,
		Contributions: toContributionResponses(item.Contributions),
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
}

type listResponse struct {
	ID          string         `json:"id"`
	EventID     string         `json:"event_id"`
	OwnerID     string         `json:"owner_id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Owner       userResponse   `json:"owner"`
	Items       []itemResponse `json:"items,omitempty"`
	CreatedAt   int64          `json:"created_at"`
}

func toListResponse(l *models.List) listResponse {
	resp := listResponse{
		ID:          l.ID,
		EventID:     l.EventID,
		OwnerID:     l.UserID,
		Title:       l.Title,
		Description: l.Description,
		Owner:       toUserResponse(l.Owner),
		CreatedAt:   l.CreatedAt,
	}
	for i := range l.Items {
		resp.Items = append(resp.Items, toItemResponse(&l.Items[i]))
	}
	return resp
}

type debtResponse struct {
	ID        string       `json:"id"`
	ItemID    string       `json:"item_id"`
	ItemTitle string       `json:"item_title,omitempty"`
	FromUser  userResponse `json:"from_user"`
	ToUser    userResponse `json:"to_user"`
	Amount    float64      `json:"amount"`
	IsSettled bool         `json:"is_settled"`
	SettledAt int64        `json:"settled_at,omitempty"`
	CreatedAt int64        `json:"created_at"`
}

func toDebtResponse(d *models.Debt) debtResponse {
	return debtResponse{
		ID:        d.ID,
		ItemID:    d.ItemID,
		ItemTitle: d.ItemTitle,
		FromUser:  toUserResponse(d.FromUser),
		ToUser:    toUserResponse(d.ToUser),
		Amount:    d.Amount,
		IsSettled: d.IsSettled,
		SettledAt: d.SettledAt,
		CreatedAt: d.CreatedAt,
	}
}

type legacyDebtItemResponse struct {
	ItemID    string `json:"item_id"`
	ItemTitle string `json:"item_title"`
}

type legacyDebtResponse struct {
	FromUserID string                   `json:"from_user_id"`
	FromUser   string                   `json:"from_user"`
	ToUserID   string                   `json:"to_user_id"`
	ToUser     string                   `json:"to_user"`
	Amount     float64                  `json:"amount"`
	Items      []legacyDebtItemResponse `json:"items"`
}

type legacyDebtSummaryResponse struct {
	Debts            []legacyDebtResponse `json:"debts"`
	ContributorCount int                  `json:"contributor_count"`
}

func toLegacyDebtSummaryResponse(s *service.LegacyDebtSummary) legacyDebtSummaryResponse {
	resp := legacyDebtSummaryResponse{
		Debts:            make([]legacyDebtResponse, len(s.Debts)),
		ContributorCount: s.ContributorCount,
	}
	for i, d := range s.Debts {
		resp.Debts[i] = toLegacyDebtResponse(d)
	}
	return resp
}

func toLegacyDebtResponse(d calculator.ProposedDebt) legacyDebtResponse {
	items := make([]legacyDebtItemResponse, len(d.Items))
	for i, item := range d.Items {
		items[i] = legacyDebtItemResponse{ItemID: item.ItemID, ItemTitle: item.ItemTitle}
	}
	return legacyDebtResponse{
		FromUserID: d.FromUserID,
		FromUser:   d.FromUser,
		ToUserID:   d.ToUserID,
		ToUser:     d.ToUser,
		Amount:     d.Amount,
		Items:      items,
	}
}
