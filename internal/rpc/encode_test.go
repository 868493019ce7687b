package rpc

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"testing"

	"iris-api/internal/shared"
)

func TestEncodeSuccessEnvelope(t *testing.T) {
	id := int64(1)
	got := EncodeSuccess(&id, map[string]int{"width": 128})
	want := `{"id":1,"result":{"width":128}}`
	if string(got) != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestEncodeErrorEnvelope(t *testing.T) {
	id := int64(1)
	got := EncodeError(&id, shared.CodeHardware, "Failed to get image from camera.")
	want := `{"id":1,"error":{"code":-1,"message":"Failed to get image from camera."}}`
	if string(got) != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestEncodeErrorNullID(t *testing.T) {
	got := EncodeError(nil, shared.CodeParse, "parse error")
	want := `{"id":null,"error":{"code":-32700,"message":"parse error"}}`
	if string(got) != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestEncodeEscapesStrings(t *testing.T) {
	id := int64(4)
	got := EncodeError(&id, shared.CodeInternal, `say "hi"`)
	var resp Response
	if err := json.Unmarshal(got, &resp); err != nil {
		t.Fatalf("envelope not valid JSON: %v", err)
	}
	if resp.Error.Message != `say "hi"` {
		t.Errorf("message mangled: %q", resp.Error.Message)
	}
}

func TestEncodeBinaryRoundTrip(t *testing.T) {
	image := []byte{0x00, 0x01, 0xfe, 0xff, 0x7f, 0x80}
	mask := []byte{1, 2, 3, 1, 1, 2}
	id := int64(1)

	got := EncodeSuccess(&id, struct {
		Base64Data []byte `json:"base64_data"`
		OutputMask []byte `json:"output_mask"`
	}{image, mask})

	var resp struct {
		Result struct {
			Base64Data string `json:"base64_data"`
			OutputMask string `json:"output_mask"`
		} `json:"result"`
	}
	if err := json.Unmarshal(got, &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	gotImage, err := base64.StdEncoding.DecodeString(resp.Result.Base64Data)
	if err != nil {
		t.Fatalf("base64_data not base64: %v", err)
	}
	if !bytes.Equal(gotImage, image) {
		t.Errorf("base64_data round trip: got %v, want %v", gotImage, image)
	}

	gotMask, err := base64.StdEncoding.DecodeString(resp.Result.OutputMask)
	if err != nil {
		t.Fatalf("output_mask not base64: %v", err)
	}
	if !bytes.Equal(gotMask, mask) {
		t.Errorf("output_mask round trip: got %v, want %v", gotMask, mask)
	}
}

func TestEncodeUnmarshalableValue(t *testing.T) {
	id := int64(5)
	got := EncodeSuccess(&id, func() {})

	var resp Response
	if err := json.Unmarshal(got, &resp); err != nil {
		t.Fatalf("fallback envelope not valid JSON: %v", err)
	}
	if resp.Error == nil || resp.Error.Code != shared.CodeInternal {
		t.Errorf("got %s, want internal error envelope", got)
	}
	if resp.ID == nil || *resp.ID != 5 {
		t.Errorf("id not echoed in fallback envelope: %s", got)
	}
}
