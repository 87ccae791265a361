package service

import (
	"encoding/base64"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

// QRCodeService renders reservation tokens as QR images. Rendering is
// a pure function of the token: the same token always produces the
// same bytes, so images are regenerated on demand and never stored.
// The token string stays the source of truth.
type QRCodeService struct {
	size int
}

func NewQRCodeService() *QRCodeService {
	return &QRCodeService{size: 256}
}

func (s *QRCodeService) PNG(token string) ([]byte, error) {
	if token == "" {
		return nil, fmt.Errorf("cannot render QR code for empty token")
	}
	png, err := qrcode.Encode(token, qrcode.Medium, s.size)
	if err != nil {
		return nil, fmt.Errorf("error encoding QR code: %w", err)
	}
	return png, nil
}

// DataURL renders the token as a data:image/png;base64 URL suitable
// for direct embedding in dashboards and emails.
func (s *QRCodeService) DataURL(token string) (string, error) {
	png, err := s.PNG(token)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
