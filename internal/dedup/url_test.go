package dedup

import "testing"

func TestNormalizeURL_TrailingSlash(t *testing.T) {
	t.Parallel()

	a := NormalizeURL("https://openai.com/index/testing-ads-in-chatgpt/")
	b := NormalizeURL("https://openai.com/index/testing-ads-in-chatgpt")
	if a != b {
		t.Fatalf("expected trailing-slash variants to normalize equally: %q vs %q", a, b)
	}
}

func TestNormalizeURL_SchemeForcedToHTTPS(t *testing.T) {
	t.Parallel()

	a := NormalizeURL("http://arxiv.org/abs/2602.06570v1")
	b := NormalizeURL("https://arxiv.org/abs/2602.06570v1")
	if a != b {
		t.Fatalf("expected http and https variants to normalize equally: %q vs %q", a, b)
	}
}

func TestNormalizeURL_StripsWWW(t *testing.T) {
	t.Parallel()

	a := NormalizeURL("https://www.example.com/page")
	b := NormalizeURL("https://example.com/page")
	if a != b {
		t.Fatalf("expected www variant to normalize equally: %q vs %q", a, b)
	}
}

func TestNormalizeURL_StripsTrackingParams(t *testing.T) {
	t.Parallel()

	got := NormalizeURL("https://example.com/page?utm_source=twitter&id=123")
	if got != "https://example.com/page?id=123" {
		t.Fatalf("unexpected normalized URL: %q", got)
	}
}

func TestNormalizeURL_TrackingParamsCaseInsensitive(t *testing.T) {
	t.Parallel()

	got := NormalizeURL("https://example.com/page?UTM_Source=x&FBCLID=y&id=1")
	if got != "https://example.com/page?id=1" {
		t.Fatalf("unexpected normalized URL: %q", got)
	}
}

func TestNormalizeURL_HostLowercased(t *testing.T) {
	t.Parallel()

	got := NormalizeURL("https://EXAMPLE.COM/Page")
	if got != "https://example.com/Page" {
		t.Fatalf("unexpected normalized URL: %q", got)
	}
}

func TestNormalizeURL_StripsFragment(t *testing.T) {
	t.Parallel()

	got := NormalizeURL("https://example.com/page#section")
	if got != "https://example.com/page" {
		t.Fatalf("unexpected normalized URL: %q", got)
	}
}

func TestNormalizeURL_NonDefaultPortPreserved(t *testing.T) {
	t.Parallel()

	got := NormalizeURL("http://example.com:8080/page")
	if got != "https://example.com:8080/page" {
		t.Fatalf("unexpected normalized URL: %q", got)
	}

	got = NormalizeURL("http://example.com:80/page")
	if got != "https://example.com/page" {
		t.Fatalf("expected default port to be dropped, got %q", got)
	}
}

func TestNormalizeURL_MultiValueQueryPreserved(t *testing.T) {
	t.Parallel()

	got := NormalizeURL("https://example.com/p?tag=a&tag=b&utm_medium=mail")
	if got != "https://example.com/p?tag=a&tag=b" {
		t.Fatalf("unexpected normalized URL: %q", got)
	}
}

func TestNormalizeURL_EmptyAndMalformedInput(t *testing.T) {
	t.Parallel()

	if got := NormalizeURL(""); got != "" {
		t.Fatalf("expected empty input to pass through, got %q", got)
	}
	if got := NormalizeURL("   "); got != "   " {
		t.Fatalf("expected whitespace input to pass through, got %q", got)
	}
	if got := NormalizeURL("not a url"); got != "not a url" {
		t.Fatalf("expected unparseable input to pass through trimmed, got %q", got)
	}
}
