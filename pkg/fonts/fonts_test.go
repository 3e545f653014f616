package fonts

import (
	"encoding/base64"
	"testing"
)

func TestFace(t *testing.T) {
	for _, bold := range []bool{false, true} {
		f, err := Face(12, bold)
		if err != nil {
			t.Fatalf("Face(12, %v) error = %v", bold, err)
		}
		if h := f.Metrics().Height; h <= 0 {
			t.Errorf("Face(12, %v) height = %v", bold, h)
		}
	}
	if _, err := Face(0, false); err == nil {
		t.Error("Face(0) succeeded")
	}
}

func TestRegularBase64(t *testing.T) {
	got, err := base64.StdEncoding.DecodeString(RegularBase64())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != len(RegularTTF()) {
		t.Errorf("decoded %d bytes, want %d", len(got), len(RegularTTF()))
	}
}
