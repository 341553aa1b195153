// SPDX-FileCopyrightText: The skycast authors
//
// SPDX-License-Identifier: MIT

// Package presenter renders a published view into the text and tooltip
// strings emitted by the status bar output. Templates are user-configurable
// and validated at construction time.
package presenter

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"github.com/nathan-osman/go-sunrise"
	"github.com/vorlif/humanize"
	"github.com/vorlif/humanize/locale/de"
	"github.com/vorlif/spreak"
	"github.com/wneessen/go-moonphase"

	"github.com/skycastd/skycast/internal/config"
	"github.com/skycastd/skycast/internal/viewstate"
)

// TemplateContext carries everything the text and tooltip templates can
// reference.
type TemplateContext struct {
	CityName    string
	Temperature float64
	FeelsLike   float64
	TempUnit    string
	Humidity    int
	UVIndex     float64

	ConditionIconURL string

	Sunrise   string
	Sunset    string
	IsDaytime bool

	MoonPhase              string
	MoonPhaseIcon          string
	MoonPhaseIconWithSpace string

	UpdatedAt time.Time
}

type Presenter struct {
	text      *template.Template
	tooltip   *template.Template
	localizer *spreak.Localizer
	humanizer *humanize.Humanizer
	units     string

	now func() time.Time
}

func New(conf *config.Config, loc *spreak.Localizer) (*Presenter, error) {
	collection := humanize.MustNew(humanize.WithLocale(de.New()))
	pres := &Presenter{
		localizer: loc,
		humanizer: collection.CreateHumanizer(loc.Language()),
		units:     conf.Units,
		now:       time.Now,
	}

	tpl, err := template.New("text").Funcs(pres.templateFuncMap()).Parse(conf.Templates.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse text template: %w", err)
	}
	pres.text = tpl

	tpl, err = template.New("tooltip").Funcs(pres.templateFuncMap()).Parse(conf.Templates.Tooltip)
	if err != nil {
		return nil, fmt.Errorf("failed to parse tooltip template: %w", err)
	}
	pres.tooltip = tpl

	// Templates can reference fields that do not exist; catch this early
	// with a throwaway render instead of failing on every output tick.
	if _, _, err = pres.render(TemplateContext{MoonPhase: "Full Moon"}); err != nil {
		return nil, err
	}

	return pres, nil
}

// Render produces the text and tooltip strings for the given view.
func (p *Presenter) Render(view viewstate.View) (string, string, error) {
	return p.render(p.BuildContext(view))
}

func (p *Presenter) render(ctx TemplateContext) (string, string, error) {
	textBuf := bytes.NewBuffer(nil)
	if err := p.text.Execute(textBuf, ctx); err != nil {
		return "", "", fmt.Errorf("failed to render text template: %w", err)
	}
	tooltipBuf := bytes.NewBuffer(nil)
	if err := p.tooltip.Execute(tooltipBuf, ctx); err != nil {
		return "", "", fmt.Errorf("failed to render tooltip template: %w", err)
	}
	return textBuf.String(), tooltipBuf.String(), nil
}

// BuildContext assembles the template context from a published view. Weather
// and astronomy data come from the view; the moon phase and the day/night
// state are computed locally.
func (p *Presenter) BuildContext(view viewstate.View) TemplateContext {
	target := TemplateContext{UpdatedAt: view.UpdatedAt}

	moon := moonphase.New(p.now())
	target.MoonPhase = moon.PhaseName()
	target.MoonPhaseIcon = MoonPhaseIcon[target.MoonPhase]
	target.MoonPhaseIconWithSpace = EmojiWithSpace(target.MoonPhaseIcon)

	if view.Weather != nil {
		target.CityName = view.Weather.CityName
		target.Humidity = view.Weather.Humidity
		target.UVIndex = view.Weather.UVIndex
		target.ConditionIconURL = view.Weather.IconURL()
		switch p.units {
		case "imperial":
			target.TempUnit = "F"
			target.Temperature = view.Weather.TempF
			target.FeelsLike = view.Weather.FeelsLikeF
		default:
			target.TempUnit = "C"
			target.Temperature = view.Weather.TempC
			target.FeelsLike = view.Weather.FeelsLikeC
		}
		if !view.Weather.FetchedAt.IsZero() {
			target.UpdatedAt = view.Weather.FetchedAt
		}

		now := p.now()
		riseTime, setTime := sunrise.SunriseSunset(view.Weather.Latitude, view.Weather.Longitude,
			now.Year(), now.Month(), now.Day())
		target.IsDaytime = now.After(riseTime) && now.Before(setTime)
	}

	if view.Astronomy != nil {
		target.Sunrise = view.Astronomy.Sunrise
		target.Sunset = view.Astronomy.Sunset
	}

	return target
}
