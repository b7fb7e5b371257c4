package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/rushteam/gamerec/config"
	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/logging"
	"github.com/rushteam/gamerec/recommender"
)

func runRecommend() error {
	fs := flag.NewFlagSet("recommend", flag.ExitOnError)
	path := fs.String("config", "", "Path to the YAML config file (default $GAMEREC_CONFIG)")
	owned := fs.String("owned", "", "Owned games as appid:minutes pairs, comma separated")
	liked := fs.String("liked", "", "Liked appids, comma separated")
	disliked := fs.String("disliked", "", "Disliked appids, comma separated")
	topN := fs.Int("top", 0, "Number of results (default recommender.default_top_n)")
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(*path)
	if err != nil {
		return err
	}
	logging.Init(cfg.Logging)
	ctx := context.Background()

	interactions, err := parseOwned(*owned)
	if err != nil {
		return err
	}
	prefs := core.Preferences{}
	if err := addPreferences(prefs, *liked, core.PreferenceLiked); err != nil {
		return err
	}
	if err := addPreferences(prefs, *disliked, core.PreferenceDisliked); err != nil {
		return err
	}

	provider, err := catalogProvider(cfg.Catalog)
	if err != nil {
		return err
	}
	games, err := provider.Load(ctx)
	if err != nil {
		return err
	}
	rec, err := recommender.New(ctx, cfg.Recommender, games)
	if err != nil {
		return err
	}
	recs, err := rec.Recommend(ctx, interactions, *topN, prefs)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(recs)
}

// parseOwned 解析 "730:1200,570:60"；省略时长时按 0 分钟处理。
func parseOwned(s string) ([]core.Interaction, error) {
	var out []core.Interaction
	for _, part := range splitList(s) {
		id, minutes, _ := strings.Cut(part, ":")
		appID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid appid %q", id)
		}
		var playtime int64
		if minutes != "" {
			if playtime, err = strconv.ParseInt(minutes, 10, 64); err != nil {
				return nil, fmt.Errorf("invalid playtime %q", minutes)
			}
		}
		out = append(out, core.Interaction{AppID: appID, PlaytimeMinutes: playtime})
	}
	return out, nil
}

func addPreferences(prefs core.Preferences, s string, p core.Preference) error {
	for _, part := range splitList(s) {
		appID, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid appid %q", part)
		}
		prefs[appID] = p
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
