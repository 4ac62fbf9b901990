package handler

import (
	"encoding/base64"

	"faceid/internal/contest/models"
)

type registerEnvelope struct {
	Data registerResource `json:"data"`
}

type registerResource struct {
	ID         int                `json:"id"`
	Type       string             `json:"type"`
	Attributes RegisterAttributes `json:"attributes"`
}

// RegisterAttributes carries the image commitment and its discrete vector.
type RegisterAttributes struct {
	Hash          string  `json:"hash"`
	FeatureVector []int64 `json:"feature_vector"`
}

// StandingsResponse is the body of GET /contest/winner. Winner is omitted
// until the ledger has chosen one.
type StandingsResponse struct {
	WinningPool  int64              `json:"winningPool"`
	Participants []ParticipantScore `json:"participants"`
	Winner       *WinnerResponse    `json:"winner,omitempty"`
}

type ParticipantScore struct {
	Name       string  `json:"name"`
	Image      string  `json:"image"`
	Hash       string  `json:"hash"`
	Percentage float64 `json:"percentage"`
}

type WinnerResponse struct {
	Name      string `json:"name"`
	ImageHash string `json:"image_hash"`
}

func fromRegisterResult(res *models.RegisterResult) registerEnvelope {
	return registerEnvelope{Data: registerResource{
		ID:   1,
		Type: "image",
		Attributes: RegisterAttributes{
			Hash:          res.Hash.Hex(),
			FeatureVector: res.FeatureVector.Ints(),
		},
	}}
}

func fromStandings(st *models.Standings) StandingsResponse {
	resp := StandingsResponse{
		WinningPool:  st.WinningPool,
		Participants: make([]ParticipantScore, 0, len(st.Participants)),
	}
	for _, p := range st.Participants {
		resp.Participants = append(resp.Participants, ParticipantScore{
			Name:       p.Name,
			Image:      base64.StdEncoding.EncodeToString(p.Image),
			Hash:       p.Hash,
			Percentage: p.Percentage,
		})
	}
	if st.Winner != nil {
		resp.Winner = &WinnerResponse{Name: st.Winner.Name, ImageHash: st.Winner.ImageHash}
	}
	return resp
}
