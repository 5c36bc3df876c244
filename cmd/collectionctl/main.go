package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/ettle/strcase"

	"github.com/goliatone/go-collection/components/collection"
	"github.com/goliatone/go-collection/components/collection/restclient"
)

type cli struct {
	ConfigDir string `help:"Configuration directory (defaults to the user config dir)." type:"path"`
	BaseURL   string `help:"Backend API base URL (overrides config file)."`
	Token     string `help:"Bearer token (overrides config file)."`

	List     listCmd     `cmd:"" help:"List records of a resource with filters applied server-side."`
	Create   createCmd   `cmd:"" help:"Create a record from --field and --file flags."`
	Delete   deleteCmd   `cmd:"" help:"Delete a record (prompts for confirmation)."`
	Action   actionCmd   `cmd:"" help:"Run an action verb (favorite, download, rate, publish) against a record."`
	Scaffold scaffoldCmd `cmd:"" help:"Add a resource descriptor entry to a manifest file."`
}

func main() {
	c := cli{}
	ctx := kong.Parse(&c,
		kong.Description("Operational CLI for collection-backed workspaces."),
		kong.UsageOnError(),
	)
	cfg, err := resolveConfig(c.ConfigDir, c.BaseURL, c.Token)
	ctx.FatalIfErrorf(err)
	ctx.FatalIfErrorf(ctx.Run(cfg))
}

func newResource(cfg *clientConfig, path string) (*restclient.Resource, error) {
	client, err := restclient.New(restclient.Config{BaseURL: cfg.BaseURL, Token: cfg.Token})
	if err != nil {
		return nil, err
	}
	return client.Resource(path), nil
}

type listCmd struct {
	Resource string `arg:"" help:"Resource path (templates, products, contacts, ...)."`
	Search   string `help:"Free-text search."`
	Category string `help:"Category filter ('all' disables)."`
	Status   string `help:"Status filter ('all' disables)."`
	Sort     string `help:"Sort key (popular, rating, newest, price-low, price-high)."`
	Page     int    `default:"1" help:"Page number."`
	Limit    int    `default:"24" help:"Records per page."`
}

func (cmd *listCmd) Run(cfg *clientConfig) error {
	resource, err := newResource(cfg, cmd.Resource)
	if err != nil {
		return err
	}
	records, err := resource.List(context.Background(), collection.Criteria{
		Search:   cmd.Search,
		Category: cmd.Category,
		Status:   cmd.Status,
		Sort:     collection.SortKey(cmd.Sort),
		Page:     cmd.Page,
		PerPage:  cmd.Limit,
	})
	if err != nil {
		return err
	}
	for _, rec := range records {
		fmt.Fprintf(os.Stdout, "%s\t%s\t↓%d ★%.1f\n", rec.ID, rec.Title(), rec.Counters.Downloads, rec.Counters.Rating)
	}
	fmt.Fprintf(os.Stdout, "%d records\n", len(records))
	return nil
}

type createCmd struct {
	Resource string            `arg:"" help:"Resource path."`
	Field    map[string]string `help:"Draft fields as key=value pairs (values parsed as JSON when possible)."`
	File     map[string]string `help:"File fields as name=path pairs."`
}

func (cmd *createCmd) Run(cfg *clientConfig) error {
	resource, err := newResource(cfg, cmd.Resource)
	if err != nil {
		return err
	}
	sub := collection.Submission{
		Resource: cmd.Resource,
		Fields:   map[string]any{},
		Files:    map[string]collection.FileUpload{},
	}
	for key, raw := range cmd.Field {
		sub.Fields[key] = parseFieldValue(raw)
	}
	for name, path := range cmd.File {
		content, err := os.ReadFile(path) //nolint:gosec
		if err != nil {
			return fmt.Errorf("collectionctl: read file %s: %w", path, err)
		}
		sub.Files[name] = collection.FileUpload{
			Filename: filepath.Base(path),
			Content:  content,
		}
	}
	rec, err := resource.Submit(context.Background(), sub)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Created %s %s\n", cmd.Resource, rec.ID)
	return nil
}

// parseFieldValue lets callers pass numbers, booleans, and arrays without
// quoting gymnastics; anything that is not valid JSON stays a plain string.
func parseFieldValue(raw string) any {
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err == nil {
		return value
	}
	return raw
}

type deleteCmd struct {
	Resource string `arg:"" help:"Resource path."`
	ID       string `arg:"" help:"Record identifier."`
	Yes      bool   `help:"Skip the confirmation prompt."`
}

func (cmd *deleteCmd) Run(cfg *clientConfig) error {
	resource, err := newResource(cfg, cmd.Resource)
	if err != nil {
		return err
	}
	dispatcher := collection.NewDispatcher(collection.DispatcherOptions{
		Performer: resource,
		Notifier:  stderrNotifier{},
		Confirm:   cmd.prompt(),
	})
	applied, err := dispatcher.Dispatch(context.Background(), collection.Record{ID: cmd.ID}, collection.Delete{})
	if err != nil {
		return err
	}
	if !applied {
		fmt.Fprintln(os.Stdout, "aborted")
	}
	return nil
}

func (cmd *deleteCmd) prompt() collection.ConfirmPrompt {
	if cmd.Yes {
		return collection.ConfirmFunc(func(context.Context, string) bool { return true })
	}
	return collection.ConfirmFunc(func(_ context.Context, prompt string) bool {
		fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes"
	})
}

type actionCmd struct {
	Resource string `arg:"" help:"Resource path."`
	ID       string `arg:"" help:"Record identifier."`
	Verb     string `arg:"" help:"Action verb (favorite, unfavorite, download, rate, publish, unpublish)."`
	Stars    int    `help:"Star rating for the rate verb." default:"0"`
	Comment  string `help:"Optional rating comment."`
}

func (cmd *actionCmd) Run(cfg *clientConfig) error {
	resource, err := newResource(cfg, cmd.Resource)
	if err != nil {
		return err
	}
	act, err := actionForVerb(cmd.Verb, cmd.Stars, cmd.Comment)
	if err != nil {
		return err
	}
	outcome, err := resource.Perform(context.Background(), cmd.ID, act)
	if err != nil {
		return err
	}
	if outcome.Download != nil {
		fmt.Fprintf(os.Stdout, "download: %s (%s)\n", outcome.Download.URL, outcome.Download.Filename)
	}
	if outcome.Message != "" {
		fmt.Fprintln(os.Stdout, outcome.Message)
	} else {
		fmt.Fprintf(os.Stdout, "✓ %s applied to %s\n", cmd.Verb, cmd.ID)
	}
	return nil
}

func actionForVerb(verb string, stars int, comment string) (collection.Action, error) {
	switch verb {
	case "download":
		return collection.Download{}, nil
	case "favorite":
		return collection.Favorite{}, nil
	case "unfavorite":
		return collection.Favorite{Remove: true}, nil
	case "rate":
		if stars < 1 || stars > 5 {
			return nil, fmt.Errorf("collectionctl: rate requires --stars between 1 and 5")
		}
		return collection.Rate{Stars: stars, Comment: comment}, nil
	case "publish":
		return collection.Publish{}, nil
	case "unpublish":
		return collection.Publish{Unpublish: true}, nil
	}
	return nil, fmt.Errorf("collectionctl: unknown action verb %q", verb)
}

type stderrNotifier struct{}

func (stderrNotifier) Notify(_ context.Context, n collection.Notification) {
	fmt.Fprintf(os.Stderr, "[%s] %s\n", n.Level, n.Message)
}

type scaffoldCmd struct {
	Code          string   `required:"" help:"Resource code; normalized to snake_case (e.g. gift_cards)."`
	Name          string   `required:"" help:"Display name for the resource."`
	Description   string   `help:"One-line description recorded in the manifest."`
	ManifestPath  string   `required:"" type:"path" help:"Path to the resource manifest YAML file to update."`
	SearchField   []string `help:"Attribute keys covered by free-text search (repeatable)."`
	RequiredField []string `help:"Draft fields required before submission (repeatable)."`
	FileField     []string `help:"Draft fields uploaded as multipart file parts (repeatable)."`
	ActionVerb    []string `help:"Action verbs the backend accepts for this resource (repeatable)."`
	Maintainer    []string `help:"Maintainers to record in the manifest."`
	Tag           []string `help:"Tags to include in the manifest entry."`
	Overwrite     bool     `help:"Replace an existing entry with the same code."`
}

func (cmd *scaffoldCmd) Run(_ *clientConfig) error {
	code := strcase.ToSnake(cmd.Code)
	manifestPath, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("collectionctl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(manifestPath)
	if err != nil {
		return err
	}
	if !cmd.Overwrite {
		for _, res := range doc.Resources {
			if res.Descriptor.Code == code {
				return fmt.Errorf("collectionctl: manifest already defines resource %s (use --overwrite to replace)", code)
			}
		}
	}

	entry := collection.ManifestResource{
		Descriptor: collection.ResourceDescriptor{
			Code:           code,
			Name:           cmd.Name,
			Description:    cmd.Description,
			SearchFields:   cmd.SearchField,
			RequiredFields: cmd.RequiredField,
			FileFields:     cmd.FileField,
			Actions:        cmd.ActionVerb,
		},
		Maintainers: cmd.Maintainer,
		Tags:        cmd.Tag,
	}

	replaced := false
	for idx := range doc.Resources {
		if doc.Resources[idx].Descriptor.Code == code {
			doc.Resources[idx] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		doc.Resources = append(doc.Resources, entry)
	}
	sort.Slice(doc.Resources, func(i, j int) bool {
		return doc.Resources[i].Descriptor.Code < doc.Resources[j].Descriptor.Code
	})

	if err := writeManifest(manifestPath, doc); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Added %s to %s (hook identifier: Register%sResource)\n",
		code, manifestPath, strcase.ToPascal(code))
	return nil
}

func loadOrInitManifest(path string) (*collection.ManifestDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return &collection.ManifestDocument{
				Version:   collection.ManifestVersion,
				Resources: []collection.ManifestResource{},
				Source:    path,
			}, nil
		}
		return nil, fmt.Errorf("collectionctl: stat manifest: %w", err)
	}
	return collection.ReadManifest(path)
}

func writeManifest(path string, doc *collection.ManifestDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("collectionctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("collectionctl: create manifest %s: %w", path, err)
	}
	defer file.Close()
	return collection.WriteManifest(file, doc)
}
