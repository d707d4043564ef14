package pagination

import "testing"

func TestCursorRoundTrip(t *testing.T) {
	token, err := EncodeCursor(Cursor{ID: "42", CreatedAt: "2026-03-18T12:00:00Z"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	cursor, err := DecodeCursor(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cursor.ID != "42" || cursor.CreatedAt != "2026-03-18T12:00:00Z" {
		t.Fatalf("round trip lost data: %+v", cursor)
	}
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	for _, token := range []string{"", "   ", "not-base64!!", "bm90IGpzb24"} {
		if _, err := DecodeCursor(token); err != ErrInvalidPageToken {
			t.Fatalf("DecodeCursor(%q) = %v, want ErrInvalidPageToken", token, err)
		}
	}
}

func TestBuildCursorPageInfo(t *testing.T) {
	type row struct{ ID string }
	tokenFn := func(r *row) string { return "tok-" + r.ID }

	rows := []*row{{"a"}, {"b"}, {"c"}}
	info := BuildCursorPageInfo(rows, 2, tokenFn)
	if !info.HasMore {
		t.Fatalf("expected more pages")
	}
	if info.NextPageToken != "tok-b" {
		t.Fatalf("token = %q, want tok-b (last visible row)", info.NextPageToken)
	}

	info = BuildCursorPageInfo(rows[:2], 2, tokenFn)
	if info.HasMore || info.NextPageToken != "" {
		t.Fatalf("exact page must not report more")
	}

	info = BuildCursorPageInfo(nil, 2, tokenFn)
	if info.HasMore {
		t.Fatalf("empty result must not report more")
	}
}
