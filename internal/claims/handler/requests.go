package handler

import (
	"encoding/base64"
	"strings"

	dErrors "faceid/pkg/domain-errors"
)

// EnrollRequest is the JSON:API style body of POST /extract.
type EnrollRequest struct {
	Data struct {
		Attributes EnrollAttributes `json:"attributes"`
	} `json:"data"`
}

type EnrollAttributes struct {
	DID       *string `json:"did"`
	UserID    *string `json:"user_id"`
	PublicKey *string `json:"public_key"`
	Metadata  *string `json:"metadata"`
	Image     string  `json:"image"`

	decoded []byte
}

// Validate requires every attribute to be present and the image to decode.
func (r *EnrollRequest) Validate() error {
	a := &r.Data.Attributes
	if a.DID == nil || a.UserID == nil || a.PublicKey == nil || a.Metadata == nil {
		return dErrors.New(dErrors.CodeBadRequest, "did, user_id, public_key and metadata are required")
	}
	img, err := decodeImage(a.Image)
	if err != nil {
		return err
	}
	a.decoded = img
	return nil
}

// PublicKeyRequest is the body of POST /pk-from-image.
type PublicKeyRequest struct {
	Data struct {
		Attributes struct {
			Image string `json:"image"`

			decoded []byte
		} `json:"attributes"`
	} `json:"data"`
}

func (r *PublicKeyRequest) Validate() error {
	img, err := decodeImage(r.Data.Attributes.Image)
	if err != nil {
		return err
	}
	r.Data.Attributes.decoded = img
	return nil
}

// decodeImage accepts standard base64 with or without a data URL prefix.
func decodeImage(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "image is required")
	}
	if i := strings.Index(s, ";base64,"); i >= 0 && strings.HasPrefix(s, "data:") {
		s = s[i+len(";base64,"):]
	}
	img, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "image is not valid base64")
	}
	return img, nil
}
