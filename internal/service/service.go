// SPDX-FileCopyrightText: The skycast authors
//
// SPDX-License-Identifier: MIT

// Package service wires the repositories, the reachability monitor and the
// presenter into the long-running status bar feed.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/vorlif/spreak"

	"github.com/skycastd/skycast/internal/config"
	"github.com/skycastd/skycast/internal/httpapi"
	"github.com/skycastd/skycast/internal/kvstore"
	"github.com/skycastd/skycast/internal/logger"
	"github.com/skycastd/skycast/internal/netmon"
	"github.com/skycastd/skycast/internal/presenter"
	"github.com/skycastd/skycast/internal/repository"
	"github.com/skycastd/skycast/internal/viewstate"
	"github.com/skycastd/skycast/internal/weather"
	"github.com/skycastd/skycast/internal/weather/provider/weatherapi"
)

const (
	OutputClass = "skycast"

	FetchTimeout  = 10 * time.Second
	LocateTimeout = 15 * time.Second

	viewBufferSize = 8
)

type outputData struct {
	Text    string `json:"text"`
	Tooltip string `json:"tooltip"`
	Class   string `json:"class"`
}

type Service struct {
	config    *config.Config
	logger    *logger.Logger
	scheduler gocron.Scheduler
	presenter *presenter.Presenter

	store   kvstore.Store
	monitor netmon.Monitor
	home    repository.HomeRepository
	search  repository.SearchRepository
	views   *viewstate.Container

	output io.Writer
}

func New(conf *config.Config, log *logger.Logger, loc *spreak.Localizer) (*Service, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	pres, err := presenter.New(conf, loc)
	if err != nil {
		return nil, fmt.Errorf("failed to create presenter: %w", err)
	}

	service := &Service{
		config:    conf,
		logger:    log,
		scheduler: scheduler,
		presenter: pres,
		views:     viewstate.New(),
		output:    os.Stdout,
	}
	return service, nil
}

func (s *Service) Run(ctx context.Context) error {
	if err := s.setup(ctx); err != nil {
		return err
	}

	// Start scheduled jobs
	if err := s.createScheduledJob(ctx, s.config.Intervals.Output, s.printWeather,
		"weatherdata_output_job"); err != nil {
		return err
	}
	if err := s.createScheduledJob(ctx, s.config.Intervals.Refresh, s.refresh,
		"weather_refresh_job"); err != nil {
		return err
	}
	s.scheduler.Start()

	// Subscribe to view updates so a finished refresh shows up immediately
	// instead of waiting for the next output tick.
	sub, unsub := s.views.Subscribe(viewBufferSize)
	go s.processViewUpdates(ctx, sub)
	go s.monitorSleepResume(ctx)

	s.refresh(ctx)

	// Wait for the context to cancel
	<-ctx.Done()
	if unsub != nil {
		unsub()
	}
	return s.scheduler.Shutdown()
}

// setup builds the cache slot, the reachability monitor, the weather provider
// and the repositories on top of them. It runs once at startup.
func (s *Service) setup(ctx context.Context) error {
	store, err := s.openStore()
	if err != nil {
		return err
	}
	s.store = store
	s.monitor = s.selectMonitor(ctx)

	httpClient := httpapi.New(s.config.API.BaseURL, s.monitor, s.logger)
	provider, err := weatherapi.New(httpClient, s.logger, s.config.API.Key)
	if err != nil {
		return fmt.Errorf("failed to create weather provider: %w", err)
	}

	home, err := repository.NewHome(provider, s.store, s.logger)
	if err != nil {
		return fmt.Errorf("failed to create home repository: %w", err)
	}
	s.home = home

	search, err := repository.NewSearch(provider, s.store, s.logger)
	if err != nil {
		return fmt.Errorf("failed to create search repository: %w", err)
	}
	s.search = search

	s.seedHomeLocation(ctx)
	return nil
}

func (s *Service) openStore() (kvstore.Store, error) {
	if s.config.State.Dir == "" {
		return kvstore.NewMemory(), nil
	}
	store, err := kvstore.NewFile(s.config.State.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open state directory: %w", err)
	}
	return store, nil
}

func (s *Service) createScheduledJob(ctx context.Context, interval time.Duration, task func(context.Context),
	jobName string,
) error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(task),
		gocron.WithContext(ctx),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName(jobName),
	)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", jobName, err)
	}
	return nil
}

// refresh runs the home weather and astronomy fetches concurrently and
// publishes their combined result. A failed fetch already fell back to the
// cached value inside the repository, so whatever comes back is published
// as-is.
func (s *Service) refresh(ctx context.Context) {
	ctxFetch, cancelFetch := context.WithTimeout(ctx, FetchTimeout)
	defer cancelFetch()

	var (
		snapshot  *weather.Snapshot
		astronomy *weather.Astronomy
	)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		snapshot = s.home.Weather(ctxFetch)
	}()
	go func() {
		defer wg.Done()
		astronomy = s.home.Astronomy(ctxFetch)
	}()
	wg.Wait()

	s.views.Publish(viewstate.View{
		Weather:      snapshot,
		Astronomy:    astronomy,
		Connectivity: s.monitor.State(),
	})
}

// printWeather renders the current view and writes one status bar line to the
// output. Views without renderable content are skipped silently.
func (s *Service) printWeather(context.Context) {
	view, ok := s.views.Current()
	if !ok || !view.HasContent() {
		s.logger.Debug("no weather data available yet, skipping output")
		return
	}

	text, tooltip, err := s.presenter.Render(view)
	if err != nil {
		s.logger.Error("failed to render weather view", logger.Err(err))
		return
	}

	out := outputData{
		Text:    text,
		Tooltip: tooltip,
		Class:   OutputClass,
	}
	if err := json.NewEncoder(s.output).Encode(out); err != nil {
		s.logger.Error("failed to encode weather output", logger.Err(err))
	}
}

func (s *Service) processViewUpdates(ctx context.Context, sub <-chan viewstate.View) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-sub:
			if !ok {
				return
			}
			s.printWeather(ctx)
		}
	}
}
