// SPDX-FileCopyrightText: The skycast authors
//
// SPDX-License-Identifier: MIT

package viewstate

import (
	"testing"

	"github.com/skycastd/skycast/internal/weather"
)

func TestView_HasContent(t *testing.T) {
	tests := []struct {
		name string
		view View
		want bool
	}{
		{"empty view", View{}, false},
		{"weather only", View{Weather: &weather.Snapshot{}}, false},
		{"astronomy only", View{Astronomy: &weather.Astronomy{}}, false},
		{"weather and astronomy", View{Weather: &weather.Snapshot{}, Astronomy: &weather.Astronomy{}}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.view.HasContent(); got != tc.want {
				t.Errorf("expected HasContent to be %t, got %t", tc.want, got)
			}
		})
	}
}

func TestContainer(t *testing.T) {
	t.Run("current is absent before the first publish", func(t *testing.T) {
		container := New()
		if _, ok := container.Current(); ok {
			t.Error("expected no current view before the first publish")
		}
	})
	t.Run("publish updates current and stamps the update time", func(t *testing.T) {
		container := New()
		container.Publish(View{Weather: &weather.Snapshot{CityName: "London"}})

		view, ok := container.Current()
		if !ok {
			t.Fatal("expected a current view after publish")
		}
		if view.Weather == nil || view.Weather.CityName != "London" {
			t.Errorf("expected published view to be current, got %+v", view)
		}
		if view.UpdatedAt.IsZero() {
			t.Error("expected update time to be stamped")
		}
	})
	t.Run("subscribers receive published views", func(t *testing.T) {
		container := New()
		sub, unsub := container.Subscribe(1)
		defer unsub()

		container.Publish(View{Weather: &weather.Snapshot{CityName: "Paris"}})

		select {
		case view := <-sub:
			if view.Weather.CityName != "Paris" {
				t.Errorf("expected city name to be 'Paris', got %q", view.Weather.CityName)
			}
		default:
			t.Fatal("expected subscriber to receive a view")
		}
	})
	t.Run("late subscriber receives the current view on subscribe", func(t *testing.T) {
		container := New()
		container.Publish(View{Weather: &weather.Snapshot{CityName: "Oslo"}})

		sub, unsub := container.Subscribe(1)
		defer unsub()

		select {
		case view := <-sub:
			if view.Weather.CityName != "Oslo" {
				t.Errorf("expected city name to be 'Oslo', got %q", view.Weather.CityName)
			}
		default:
			t.Fatal("expected late subscriber to receive the current view")
		}
	})
	t.Run("a full subscriber buffer does not block the publisher", func(t *testing.T) {
		container := New()
		sub, unsub := container.Subscribe(1)
		defer unsub()

		container.Publish(View{Weather: &weather.Snapshot{CityName: "first"}})
		container.Publish(View{Weather: &weather.Snapshot{CityName: "second"}})

		view := <-sub
		if view.Weather.CityName != "first" {
			t.Errorf("expected buffered view to be 'first', got %q", view.Weather.CityName)
		}
		current, _ := container.Current()
		if current.Weather.CityName != "second" {
			t.Errorf("expected current view to be 'second', got %q", current.Weather.CityName)
		}
	})
	t.Run("unsubscribed channels receive no further views", func(t *testing.T) {
		container := New()
		sub, unsub := container.Subscribe(1)
		unsub()

		container.Publish(View{})
		if _, ok := <-sub; ok {
			t.Error("expected subscription channel to be closed")
		}
	})
}
