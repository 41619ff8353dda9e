package cmd

import (
	"time"

	"github.com/jimezsa/jobmailer/internal/config"
	"github.com/jimezsa/jobmailer/internal/models"
	"github.com/jimezsa/jobmailer/internal/network"
	"github.com/jimezsa/jobmailer/internal/search"
)

const proxyBanDuration = 10 * time.Minute

func defaultProvider(cfg config.Config, proxiesFlag string) (search.Provider, error) {
	client, err := newClient(proxiesFlag)
	if err != nil {
		return nil, err
	}
	return search.NewSerpAPI(client, cfg.SerpAPIKey).WithBaseURL(cfg.SearchURL), nil
}

func newClient(proxiesFlag string) (*network.Client, error) {
	proxies, err := config.LoadProxies(proxiesFlag)
	if err != nil {
		return nil, err
	}

	var rotator *network.Rotator
	if len(proxies) > 0 {
		rotator, err = network.NewRotator(proxies, proxyBanDuration)
		if err != nil {
			return nil, err
		}
	}
	return network.NewClient(rotator, models.ClientConfig{Timeout: network.DefaultTimeout})
}

func searchParams(cfg config.Config) models.SearchParams {
	return models.SearchParams{
		Num:          cfg.ResultsPerQuery,
		GoogleDomain: cfg.GoogleDomain,
		Country:      cfg.Country,
		Language:     cfg.Language,
	}
}
