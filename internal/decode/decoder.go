// Package decode extracts QR payloads from capture frames.
//
// The Loop samples frames at a fixed cadence and runs them through a
// Decoder. Finding no code in a frame is the normal case and stays silent;
// a found payload is handed to the caller exactly once per frame.
package decode

import (
	"image"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// Decoder attempts to read a QR payload out of a single frame. The boolean
// reports whether a payload was found; a miss carries no error because it
// is an expected outcome of most frames.
type Decoder interface {
	Decode(img image.Image) (string, bool)
}

// QRDecoder decodes QR codes with the zxing port. Decode attempts are
// serialized by the Loop, so one reader instance is enough.
type QRDecoder struct {
	reader gozxing.Reader
}

func NewQRDecoder() *QRDecoder {
	return &QRDecoder{reader: qrcode.NewQRCodeReader()}
}

func (d *QRDecoder) Decode(img image.Image) (string, bool) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", false
	}

	// NotFoundException and friends all land here; every failure is just
	// "no code in this frame".
	result, err := d.reader.Decode(bmp, nil)
	if err != nil {
		return "", false
	}
	return result.GetText(), true
}
