package handler

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"strings"

	dErrors "faceid/pkg/domain-errors"
)

// RegisterRequest is the body of POST /contest/register.
type RegisterRequest struct {
	ImageBase64   *string         `json:"imageBase64"`
	Proof         json.RawMessage `json:"proof"`
	Name          *string         `json:"name"`
	RewardAddress string          `json:"rewardAddress"`

	image []byte
}

func (r *RegisterRequest) Validate() error {
	if r.ImageBase64 == nil || r.Name == nil || len(r.Proof) == 0 || bytes.Equal(r.Proof, []byte("null")) {
		return dErrors.New(dErrors.CodeBadRequest, "imageBase64, proof and name are required")
	}
	*r.Name = strings.TrimSpace(*r.Name)
	if *r.Name == "" {
		return dErrors.New(dErrors.CodeBadRequest, "name must not be empty")
	}
	img, err := base64.StdEncoding.DecodeString(strings.TrimSpace(*r.ImageBase64))
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "imageBase64 is not valid base64")
	}
	if len(img) == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "imageBase64 is empty")
	}
	r.image = img
	r.RewardAddress = strings.TrimSpace(r.RewardAddress)
	return nil
}
