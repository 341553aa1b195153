// SPDX-FileCopyrightText: The skycast authors
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"strings"
	"testing"
	"time"

	"github.com/vorlif/spreak"

	"github.com/skycastd/skycast/internal/config"
	"github.com/skycastd/skycast/internal/i18n"
	"github.com/skycastd/skycast/internal/viewstate"
	"github.com/skycastd/skycast/internal/weather"
)

func TestNew(t *testing.T) {
	t.Run("creating presenter with default templates works", func(t *testing.T) {
		conf, lang := testConfLang(t)
		pres, err := New(conf, lang)
		if err != nil {
			t.Fatalf("failed to create presenter: %s", err)
		}
		if pres == nil {
			t.Fatal("expected presenter to be non-nil")
		}
	})
	t.Run("creating presenter with invalid templates fails", func(t *testing.T) {
		tests := []struct {
			name       string
			templateFn func(conf *config.Config)
		}{
			{"text", func(conf *config.Config) { conf.Templates.Text = "{{invalid" }},
			{"tooltip", func(conf *config.Config) { conf.Templates.Tooltip = "{{invalid" }},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				conf, lang := testConfLang(t)
				tt.templateFn(conf)
				_, err := New(conf, lang)
				if err == nil {
					t.Fatal("expected presenter to fail, but didn't")
				}
				wantErr := "failed to parse"
				if !strings.Contains(err.Error(), wantErr) {
					t.Errorf("expected error to contain %q, got %q", wantErr, err)
				}
			})
		}
	})
	t.Run("templates referencing unknown fields fail at construction", func(t *testing.T) {
		conf, lang := testConfLang(t)
		conf.Templates.Text = "{{.DoesNotExist.Field}}"
		_, err := New(conf, lang)
		if err == nil {
			t.Fatal("expected presenter to fail, but didn't")
		}
		wantErr := "failed to render"
		if !strings.Contains(err.Error(), wantErr) {
			t.Errorf("expected error to contain %q, got %q", wantErr, err)
		}
	})
}

func TestPresenter_BuildContext(t *testing.T) {
	noonUTC := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	midnightUTC := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	snapshot := &weather.Snapshot{
		Query:      "London",
		CityName:   "London",
		Humidity:   64,
		UVIndex:    4,
		TempC:      21.5,
		TempF:      70.7,
		FeelsLikeC: 20.1,
		FeelsLikeF: 68.2,
		Latitude:   51.52,
		Longitude:  -0.11,
		FetchedAt:  noonUTC,
	}
	astronomy := &weather.Astronomy{Sunrise: "04:43 AM", Sunset: "09:21 PM"}

	t.Run("metric units select celsius fields", func(t *testing.T) {
		pres := testPresenter(t, "metric", noonUTC)
		ctx := pres.BuildContext(viewstate.View{Weather: snapshot, Astronomy: astronomy})
		if ctx.TempUnit != "C" {
			t.Errorf("expected temperature unit C, got %q", ctx.TempUnit)
		}
		if ctx.Temperature != snapshot.TempC {
			t.Errorf("expected temperature %f, got %f", snapshot.TempC, ctx.Temperature)
		}
		if ctx.FeelsLike != snapshot.FeelsLikeC {
			t.Errorf("expected feels-like %f, got %f", snapshot.FeelsLikeC, ctx.FeelsLike)
		}
	})
	t.Run("imperial units select fahrenheit fields", func(t *testing.T) {
		pres := testPresenter(t, "imperial", noonUTC)
		ctx := pres.BuildContext(viewstate.View{Weather: snapshot, Astronomy: astronomy})
		if ctx.TempUnit != "F" {
			t.Errorf("expected temperature unit F, got %q", ctx.TempUnit)
		}
		if ctx.Temperature != snapshot.TempF {
			t.Errorf("expected temperature %f, got %f", snapshot.TempF, ctx.Temperature)
		}
	})
	t.Run("astronomy times are passed through verbatim", func(t *testing.T) {
		pres := testPresenter(t, "metric", noonUTC)
		ctx := pres.BuildContext(viewstate.View{Weather: snapshot, Astronomy: astronomy})
		if ctx.Sunrise != astronomy.Sunrise || ctx.Sunset != astronomy.Sunset {
			t.Errorf("expected sunrise/sunset %q/%q, got %q/%q", astronomy.Sunrise, astronomy.Sunset,
				ctx.Sunrise, ctx.Sunset)
		}
	})
	t.Run("moon phase resolves to a known icon", func(t *testing.T) {
		pres := testPresenter(t, "metric", noonUTC)
		ctx := pres.BuildContext(viewstate.View{Weather: snapshot, Astronomy: astronomy})
		icon, ok := MoonPhaseIcon[ctx.MoonPhase]
		if !ok {
			t.Fatalf("unexpected moon phase name %q", ctx.MoonPhase)
		}
		if ctx.MoonPhaseIcon != icon {
			t.Errorf("expected moon phase icon %q, got %q", icon, ctx.MoonPhaseIcon)
		}
		if ctx.MoonPhaseIconWithSpace != EmojiWithSpace(icon) {
			t.Errorf("expected padded icon %q, got %q", EmojiWithSpace(icon), ctx.MoonPhaseIconWithSpace)
		}
	})
	t.Run("daytime is computed from the snapshot coordinates", func(t *testing.T) {
		pres := testPresenter(t, "metric", noonUTC)
		ctx := pres.BuildContext(viewstate.View{Weather: snapshot, Astronomy: astronomy})
		if !ctx.IsDaytime {
			t.Error("expected noon in London to be daytime")
		}
		pres.now = func() time.Time { return midnightUTC }
		ctx = pres.BuildContext(viewstate.View{Weather: snapshot, Astronomy: astronomy})
		if ctx.IsDaytime {
			t.Error("expected midnight in London to be nighttime")
		}
	})
	t.Run("fetch time takes precedence over publish time", func(t *testing.T) {
		pres := testPresenter(t, "metric", noonUTC)
		published := noonUTC.Add(5 * time.Minute)
		ctx := pres.BuildContext(viewstate.View{Weather: snapshot, Astronomy: astronomy, UpdatedAt: published})
		if !ctx.UpdatedAt.Equal(snapshot.FetchedAt) {
			t.Errorf("expected update time %s, got %s", snapshot.FetchedAt, ctx.UpdatedAt)
		}
	})
	t.Run("empty view still yields a renderable context", func(t *testing.T) {
		pres := testPresenter(t, "metric", noonUTC)
		ctx := pres.BuildContext(viewstate.View{})
		if ctx.CityName != "" || ctx.Sunrise != "" {
			t.Error("expected empty fields for an empty view")
		}
		if ctx.MoonPhase == "" {
			t.Error("expected moon phase to be computed regardless of view content")
		}
	})
}

func TestPresenter_Render(t *testing.T) {
	noonUTC := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	view := viewstate.View{
		Weather: &weather.Snapshot{
			CityName:   "Berlin",
			Humidity:   55,
			UVIndex:    3.2,
			TempC:      18.67,
			FeelsLikeC: 17.3,
			Latitude:   52.52,
			Longitude:  13.4,
			FetchedAt:  noonUTC,
		},
		Astronomy: &weather.Astronomy{Sunrise: "04:43 AM", Sunset: "09:32 PM"},
	}

	t.Run("default text template renders city and temperature", func(t *testing.T) {
		pres := testPresenter(t, "metric", noonUTC)
		text, _, err := pres.Render(view)
		if err != nil {
			t.Fatalf("failed to render view: %s", err)
		}
		want := "Berlin 18.6°C"
		if text != want {
			t.Errorf("expected text %q, got %q", want, text)
		}
	})
	t.Run("default tooltip template renders all lines", func(t *testing.T) {
		pres := testPresenter(t, "metric", noonUTC)
		_, tooltip, err := pres.Render(view)
		if err != nil {
			t.Fatalf("failed to render view: %s", err)
		}
		for _, want := range []string{
			"Feels like: 17.3°C", "Humidity: 55%", "UV index: 3.2",
			"Sunrise: 04:43 AM", "Sunset: 09:32 PM", "Moon phase:",
		} {
			if !strings.Contains(tooltip, want) {
				t.Errorf("expected tooltip to contain %q, got %q", want, tooltip)
			}
		}
	})
	t.Run("custom template functions are available", func(t *testing.T) {
		conf, lang := testConfLang(t)
		conf.Templates.Text = `{{uc .CityName}} {{lc .CityName}} {{timeFormat .UpdatedAt "2006-01-02"}}`
		pres, err := New(conf, lang)
		if err != nil {
			t.Fatalf("failed to create presenter: %s", err)
		}
		pres.now = func() time.Time { return noonUTC }
		text, _, err := pres.Render(view)
		if err != nil {
			t.Fatalf("failed to render view: %s", err)
		}
		want := "BERLIN berlin 2026-06-15"
		if text != want {
			t.Errorf("expected text %q, got %q", want, text)
		}
	})
}

func TestPresenter_loc(t *testing.T) {
	pres := testPresenter(t, "metric", time.Now())
	t.Run("known keys resolve case-insensitively", func(t *testing.T) {
		if got := pres.loc("Humidity"); got != "Humidity" {
			t.Errorf("expected localized humidity label, got %q", got)
		}
	})
	t.Run("unknown keys fall through lowercased", func(t *testing.T) {
		if got := pres.loc("NoSuchKey"); got != "nosuchkey" {
			t.Errorf("expected loc to return lowercased input, got %q", got)
		}
	})
}

func TestPresenter_floatFormat(t *testing.T) {
	pres := testPresenter(t, "metric", time.Now())
	tests := []struct {
		val       float64
		precision int
		want      string
	}{
		{21.56, 1, "21.5"},
		{21.56, 0, "21"},
		{-3.99, 1, "-3.9"},
		{7, 2, "7.00"},
	}
	for _, tt := range tests {
		if got := pres.floatFormat(tt.val, tt.precision); got != tt.want {
			t.Errorf("floatFormat(%f, %d) = %q, want %q", tt.val, tt.precision, got, tt.want)
		}
	}
}

func TestEmojiWithSpace(t *testing.T) {
	t.Run("wide emoji gets padded", func(t *testing.T) {
		got := EmojiWithSpace("🌕")
		if !strings.HasPrefix(got, "🌕") || len(got) <= len("🌕") {
			t.Errorf("expected padded emoji, got %q", got)
		}
	})
	t.Run("empty string stays empty", func(t *testing.T) {
		if got := EmojiWithSpace(""); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})
}

func testConfLang(t *testing.T) (*config.Config, *spreak.Localizer) {
	t.Helper()
	conf := &config.Config{Units: "metric"}
	conf.Templates.Text = config.DefaultTextTpl
	conf.Templates.Tooltip = config.DefaultTooltipTpl
	lang, err := i18n.New("en")
	if err != nil {
		t.Fatalf("failed to create localizer: %s", err)
	}
	return conf, lang
}

func testPresenter(t *testing.T, units string, now time.Time) *Presenter {
	t.Helper()
	conf, lang := testConfLang(t)
	conf.Units = units
	pres, err := New(conf, lang)
	if err != nil {
		t.Fatalf("failed to create presenter: %s", err)
	}
	pres.now = func() time.Time { return now }
	return pres
}
