package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/fauxios/pkg/adapter"
	"github.com/m-mizutani/fauxios/pkg/repository"
	"github.com/m-mizutani/fauxios/pkg/service/corpus"
)

// config holds configuration values
type config struct {
	// Repository
	project  string
	database string

	// Storage
	bucket string

	// Adapters
	geminiProject  string
	geminiLocation string
	newsdataAPIKey string
	feedURL        string

	// Retrieval
	retrieveMode string

	// Site
	siteURL string

	// Social
	xAPIKey       string
	xAPISecret    string
	xAccessToken  string
	xAccessSecret string
	fbUserID      string
	fbUserToken   string
	fbPageID      string

	// Video
	speechEndpoint    string
	speechAPIKey      string
	speechVoice       string
	videoAPIURL       string
	videoAPIKey       string
	renderEndpoint    string
	renderComposition string
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "project",
			Aliases:     []string{"p"},
			Usage:       "Google Cloud project ID",
			Sources:     cli.EnvVars("GOOGLE_CLOUD_PROJECT"),
			Destination: &cfg.project,
		},
		&cli.StringFlag{
			Name:        "database",
			Aliases:     []string{"d"},
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("FIRESTORE_DATABASE_ID"),
			Destination: &cfg.database,
		},
		&cli.StringFlag{
			Name:        "bucket",
			Aliases:     []string{"b"},
			Usage:       "Cloud Storage bucket for images and corpus snapshots",
			Sources:     cli.EnvVars("FAUXIOS_BUCKET"),
			Destination: &cfg.bucket,
		},
	}
}

// geminiFlags returns flags for Gemini configuration with destination config
func geminiFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini",
			Sources:     cli.EnvVars("GEMINI_PROJECT_ID"),
			Destination: &cfg.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini",
			Value:       "us-central1",
			Sources:     cli.EnvVars("GEMINI_LOCATION"),
			Destination: &cfg.geminiLocation,
		},
	}
}

// feedFlags returns flags for the news feed source
func feedFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "newsdata-api-key",
			Usage:       "newsdata.io API key",
			Sources:     cli.EnvVars("NEWSDATA_API_KEY"),
			Destination: &cfg.newsdataAPIKey,
		},
		&cli.StringFlag{
			Name:        "feed-url",
			Usage:       "RSS feed URL used instead of newsdata.io when set",
			Sources:     cli.EnvVars("FAUXIOS_FEED_URL"),
			Destination: &cfg.feedURL,
		},
		&cli.StringFlag{
			Name:        "retrieve-mode",
			Usage:       "Context retrieval mode: single or multi",
			Value:       string(corpus.RetrieveSingle),
			Sources:     cli.EnvVars("FAUXIOS_RETRIEVE_MODE"),
			Destination: &cfg.retrieveMode,
		},
	}
}

// socialFlags returns flags for social platform credentials
func socialFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "site-url",
			Usage:       "Public site base URL embedded in posts",
			Value:       "https://www.fauxios.com",
			Sources:     cli.EnvVars("FAUXIOS_SITE_URL"),
			Destination: &cfg.siteURL,
		},
		&cli.StringFlag{
			Name:        "x-api-key",
			Usage:       "X API key",
			Sources:     cli.EnvVars("X_API_KEY"),
			Destination: &cfg.xAPIKey,
		},
		&cli.StringFlag{
			Name:        "x-api-secret",
			Usage:       "X API secret",
			Sources:     cli.EnvVars("X_API_SECRET"),
			Destination: &cfg.xAPISecret,
		},
		&cli.StringFlag{
			Name:        "x-access-token",
			Usage:       "X access token",
			Sources:     cli.EnvVars("X_ACCESS_TOKEN"),
			Destination: &cfg.xAccessToken,
		},
		&cli.StringFlag{
			Name:        "x-access-secret",
			Usage:       "X access token secret",
			Sources:     cli.EnvVars("X_ACCESS_SECRET"),
			Destination: &cfg.xAccessSecret,
		},
		&cli.StringFlag{
			Name:        "facebook-user-id",
			Usage:       "Facebook user ID",
			Sources:     cli.EnvVars("FACEBOOK_USER_ID"),
			Destination: &cfg.fbUserID,
		},
		&cli.StringFlag{
			Name:        "facebook-user-token",
			Usage:       "Facebook user access token",
			Sources:     cli.EnvVars("FACEBOOK_USER_TOKEN"),
			Destination: &cfg.fbUserToken,
		},
		&cli.StringFlag{
			Name:        "facebook-page-id",
			Usage:       "Facebook page ID to post to",
			Sources:     cli.EnvVars("FACEBOOK_PAGE_ID"),
			Destination: &cfg.fbPageID,
		},
	}
}

// videoFlags returns flags for the video asset services
func videoFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "speech-endpoint",
			Usage:       "Speech synthesis API endpoint",
			Sources:     cli.EnvVars("SPEECH_ENDPOINT"),
			Destination: &cfg.speechEndpoint,
		},
		&cli.StringFlag{
			Name:        "speech-api-key",
			Usage:       "Speech synthesis API key",
			Sources:     cli.EnvVars("SPEECH_API_KEY"),
			Destination: &cfg.speechAPIKey,
		},
		&cli.StringFlag{
			Name:        "speech-voice",
			Usage:       "Voice ID for the voiceover",
			Value:       "Matthew",
			Sources:     cli.EnvVars("SPEECH_VOICE"),
			Destination: &cfg.speechVoice,
		},
		&cli.StringFlag{
			Name:        "video-api-url",
			Usage:       "Video generation API base URL",
			Sources:     cli.EnvVars("VIDEO_API_URL"),
			Destination: &cfg.videoAPIURL,
		},
		&cli.StringFlag{
			Name:        "video-api-key",
			Usage:       "Video generation API key",
			Sources:     cli.EnvVars("VIDEO_API_KEY"),
			Destination: &cfg.videoAPIKey,
		},
		&cli.StringFlag{
			Name:        "render-endpoint",
			Usage:       "Composition render service endpoint",
			Sources:     cli.EnvVars("RENDER_ENDPOINT"),
			Destination: &cfg.renderEndpoint,
		},
		&cli.StringFlag{
			Name:        "render-composition",
			Usage:       "Composition ID to render",
			Value:       "FauxiosVideo",
			Sources:     cli.EnvVars("RENDER_COMPOSITION"),
			Destination: &cfg.renderComposition,
		},
	}
}

// newRepository creates a new repository instance
func (cfg *config) newRepository(ctx context.Context) (repository.Repository, error) {
	if cfg.project == "" {
		return nil, goerr.New("project is required")
	}
	if cfg.database == "" {
		return nil, goerr.New("database is required")
	}

	repo, err := repository.New(ctx, cfg.project, cfg.database)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create repository")
	}
	return repo, nil
}

// newGemini creates a new Gemini adapter instance
func (cfg *config) newGemini(ctx context.Context) (adapter.Gemini, error) {
	if cfg.geminiProject == "" {
		return nil, goerr.New("gemini-project is required")
	}
	if cfg.geminiLocation == "" {
		return nil, goerr.New("gemini-location is required")
	}
	return adapter.NewGemini(ctx, cfg.geminiProject, cfg.geminiLocation)
}

// newStorage creates a new Storage adapter instance
func (cfg *config) newStorage(ctx context.Context) (adapter.Storage, error) {
	if cfg.bucket == "" {
		return nil, goerr.New("bucket is required")
	}

	storage, err := adapter.NewStorage(ctx, cfg.bucket)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage")
	}
	return storage, nil
}

// newFeed creates the news feed source. An RSS feed URL takes precedence
// over the newsdata.io API key.
func (cfg *config) newFeed() (adapter.NewsFeed, error) {
	if cfg.feedURL != "" {
		return adapter.NewRSSFeed(cfg.feedURL), nil
	}
	if cfg.newsdataAPIKey == "" {
		return nil, goerr.New("either newsdata-api-key or feed-url is required")
	}
	return adapter.NewNewsdataFeed(cfg.newsdataAPIKey), nil
}

// newRetriever loads the corpus snapshot and builds the retriever
func (cfg *config) newRetriever(ctx context.Context, gemini adapter.Gemini, storage adapter.Storage) (*corpus.Retriever, error) {
	mode := corpus.RetrieveMode(cfg.retrieveMode)
	switch mode {
	case corpus.RetrieveSingle, corpus.RetrieveMulti:
	default:
		return nil, goerr.New("retrieve-mode must be single or multi", goerr.V("mode", cfg.retrieveMode))
	}

	return corpus.LoadRetriever(ctx, gemini, storage, corpus.WithRetrieveMode(mode))
}

// newPosters builds the configured social platform posters. Platforms with
// no credentials are skipped.
func (cfg *config) newPosters() []adapter.SocialPoster {
	var posters []adapter.SocialPoster
	if cfg.xAPIKey != "" {
		posters = append(posters, adapter.NewXPoster(adapter.XCredentials{
			APIKey:       cfg.xAPIKey,
			APISecret:    cfg.xAPISecret,
			AccessToken:  cfg.xAccessToken,
			AccessSecret: cfg.xAccessSecret,
		}))
	}
	if cfg.fbUserID != "" {
		posters = append(posters, adapter.NewFacebookPoster(adapter.FacebookCredentials{
			UserID:          cfg.fbUserID,
			UserAccessToken: cfg.fbUserToken,
			PageID:          cfg.fbPageID,
		}))
	}
	return posters
}

// newVideoAdapters builds the speech, clip generation and render clients
func (cfg *config) newVideoAdapters() (adapter.SpeechSynthesizer, adapter.VideoGenerator, adapter.RenderService, error) {
	if cfg.speechEndpoint == "" {
		return nil, nil, nil, goerr.New("speech-endpoint is required")
	}
	if cfg.videoAPIURL == "" {
		return nil, nil, nil, goerr.New("video-api-url is required")
	}
	if cfg.renderEndpoint == "" {
		return nil, nil, nil, goerr.New("render-endpoint is required")
	}

	speech := adapter.NewSpeechSynthesizer(cfg.speechEndpoint, cfg.speechAPIKey, cfg.speechVoice)
	clips := adapter.NewVideoGenerator(cfg.videoAPIURL, cfg.videoAPIKey)
	render := adapter.NewRenderService(cfg.renderEndpoint, cfg.renderComposition)
	return speech, clips, render, nil
}
