package i18n

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "en", want: LocaleEN},
		{in: "en-GB", want: LocaleEN},
		{in: " ID ", want: LocaleID},
		{in: "in-ID", want: LocaleID},
		{in: "zh", want: LocaleZH},
		{in: "zh-TW", want: LocaleZH},
		{in: "fr-FR", want: DefaultLocale},
		{in: "", want: DefaultLocale},
	}
	for _, item := range cases {
		if got := Normalize(item.in); got != item.want {
			t.Fatalf("normalize %q want %s got %s", item.in, item.want, got)
		}
	}
}

func TestResolveLocale(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newContext := func(query, acceptLanguage string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/ping"+query, nil)
		if acceptLanguage != "" {
			c.Request.Header.Set("Accept-Language", acceptLanguage)
		}
		return c
	}

	if got := ResolveLocale(nil); got != DefaultLocale {
		t.Fatalf("nil context want default got %s", got)
	}
	if got := ResolveLocale(newContext("", "")); got != DefaultLocale {
		t.Fatalf("empty request want default got %s", got)
	}
	// query 参数优先于请求头
	if got := ResolveLocale(newContext("?locale=en-US", "zh-CN")); got != LocaleEN {
		t.Fatalf("query locale want en-US got %s", got)
	}
	if got := ResolveLocale(newContext("", "zh-CN,zh;q=0.9,en;q=0.8")); got != LocaleZH {
		t.Fatalf("accept-language want zh-CN got %s", got)
	}
	if got := ResolveLocale(newContext("", "id;q=0.9")); got != LocaleID {
		t.Fatalf("accept-language want id-ID got %s", got)
	}
}

func TestTranslationFallback(t *testing.T) {
	if got := T(LocaleEN, "error.not_found"); got == "" || got == "error.not_found" {
		t.Fatalf("expected translated text, got %q", got)
	}
	// 未知语言回退默认语言
	if got := T("fr-FR", "error.not_found"); got != T(DefaultLocale, "error.not_found") {
		t.Fatalf("unknown locale should fall back to default, got %q", got)
	}
	if got := T(LocaleEN, "no.such.key"); got != "no.such.key" {
		t.Fatalf("missing key should echo key, got %q", got)
	}
}

func TestAllLocalesShareMessageKeys(t *testing.T) {
	base, ok := messages[DefaultLocale]
	if !ok {
		t.Fatalf("default locale catalog missing")
	}
	for _, locale := range Supported() {
		table, ok := messages[locale]
		if !ok {
			t.Fatalf("locale catalog missing: %s", locale)
		}
		if len(table) != len(base) {
			t.Fatalf("locale %s has %d keys, default has %d", locale, len(table), len(base))
		}
		for key := range base {
			if _, ok := table[key]; !ok {
				t.Fatalf("locale %s missing key %s", locale, key)
			}
		}
	}
}

func TestSprintf(t *testing.T) {
	got := Sprintf(LocaleEN, "email.otp.body.register", "Budi", "1234", 10)
	if got == "email.otp.body.register" {
		t.Fatalf("expected formatted text, got key echo")
	}
	for _, fragment := range []string{"Budi", "1234", "10"} {
		if !strings.Contains(got, fragment) {
			t.Fatalf("formatted text missing %q: %s", fragment, got)
		}
	}
}
