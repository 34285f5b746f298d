package decode

import (
	"image"
	"testing"

	genqr "github.com/skip2/go-qrcode"
)

func qrFrame(t *testing.T, payload string) image.Image {
	t.Helper()
	qr, err := genqr.New(payload, genqr.Medium)
	if err != nil {
		t.Fatalf("encoding QR: %v", err)
	}
	return qr.Image(256)
}

func TestQRDecoder_DecodesGeneratedCode(t *testing.T) {
	d := NewQRDecoder()

	payload, found := d.Decode(qrFrame(t, "7:tok-9f"))
	if !found {
		t.Fatal("expected a payload")
	}
	if payload != "7:tok-9f" {
		t.Fatalf("payload = %q, want %q", payload, "7:tok-9f")
	}
}

func TestQRDecoder_EmptyFrameIsAMiss(t *testing.T) {
	d := NewQRDecoder()

	if payload, found := d.Decode(image.NewGray(image.Rect(0, 0, 64, 64))); found {
		t.Fatalf("blank frame decoded to %q, want miss", payload)
	}
}
