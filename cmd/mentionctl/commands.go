package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/xyz-asif/nexcrm/internal/mention"
)

var textFlags = []cli.Flag{
	&cli.StringFlag{
		Name:     "text",
		Aliases:  []string{"t"},
		Usage:    "Current composer text",
		Required: true,
	},
	&cli.IntFlag{
		Name:  "caret",
		Usage: "Caret offset in runes (defaults to the end of the text)",
		Value: -1,
	},
}

var poolFlags = []cli.Flag{
	&cli.StringSliceFlag{
		Name:    "user",
		Aliases: []string{"u"},
		Usage:   "Developer candidate as `ID:USERNAME`",
	},
	&cli.StringSliceFlag{
		Name:    "client",
		Aliases: []string{"k"},
		Usage:   "Client candidate as `ID:NAME`",
	},
	&cli.IntFlag{
		Name:  "width",
		Usage: "Wrap width in terminal columns (0 disables wrapping)",
	},
	&cli.IntFlag{
		Name:  "limit",
		Usage: "Maximum suggestions shown",
		Value: mention.DefaultPopupLimit,
	},
}

// DetectCommand returns the detect command
func DetectCommand() *cli.Command {
	return &cli.Command{
		Name:   "detect",
		Usage:  "Show the mention query active at the caret",
		Flags:  textFlags,
		Action: runDetect,
	}
}

// SuggestCommand returns the suggest command
func SuggestCommand() *cli.Command {
	return &cli.Command{
		Name:   "suggest",
		Usage:  "List the candidates and popup anchor for the text at the caret",
		Flags:  append(append([]cli.Flag{}, textFlags...), poolFlags...),
		Action: runSuggest,
	}
}

// SelectCommand returns the select command
func SelectCommand() *cli.Command {
	flags := append(append([]cli.Flag{}, textFlags...), poolFlags...)
	flags = append(flags,
		&cli.StringFlag{
			Name:     "id",
			Usage:    "ID of the candidate to insert",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "kind",
			Usage: "Namespace of the candidate (USER or CLIENT)",
			Value: string(mention.KindUser),
		},
	)
	return &cli.Command{
		Name:   "select",
		Usage:  "Insert a candidate into the active mention and print the result",
		Flags:  flags,
		Action: runSelect,
	}
}

// RenderCommand returns the render command
func RenderCommand() *cli.Command {
	return &cli.Command{
		Name:  "render",
		Usage: "Split stored comment content into text and mention segments",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "content",
				Aliases:  []string{"c"},
				Usage:    "Stored comment content",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:    "user",
				Aliases: []string{"u"},
				Usage:   "Mentioned username",
			},
			&cli.StringSliceFlag{
				Name:    "client",
				Aliases: []string{"k"},
				Usage:   "Mentioned client name",
			},
			&cli.BoolFlag{
				Name:  "plain",
				Usage: "Print the segments joined back into plain text",
			},
		},
		Action: runRender,
	}
}

func runDetect(c *cli.Context) error {
	text, caret := textAndCaret(c)
	detector := mention.NewDetector(mention.WithClientPrefix(c.String("client-prefix")))
	return writeJSON(c, map[string]interface{}{
		"query": detector.Detect(text, caret),
	})
}

func runSuggest(c *cli.Context) error {
	composer, err := newComposer(c)
	if err != nil {
		return err
	}
	text, caret := textAndCaret(c)
	return writeJSON(c, composer.OnTextChange(text, caret))
}

func runSelect(c *cli.Context) error {
	composer, err := newComposer(c)
	if err != nil {
		return err
	}

	kind := mention.Kind(strings.ToUpper(c.String("kind")))
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", mention.ErrUnknownKind, c.String("kind"))
	}
	candidate, ok := composer.Index().Lookup(kind, c.String("id"))
	if !ok {
		return fmt.Errorf("no %s candidate with id %q", kind, c.String("id"))
	}

	text, caret := textAndCaret(c)
	state := composer.OnTextChange(text, caret)
	if q := state.MentionQuery; q != nil && q.Kind != kind {
		return fmt.Errorf("%w: %s candidate for a %s mention", mention.ErrInvalidState, kind, q.Kind)
	}
	edit, err := composer.SelectCandidate(candidate)
	if err != nil {
		return err
	}
	submission, err := composer.Submission()
	if err != nil {
		return err
	}
	return writeJSON(c, map[string]interface{}{
		"edit":       edit,
		"submission": submission,
	})
}

func runRender(c *cli.Context) error {
	segments := mention.Render(c.String("content"), c.StringSlice("user"), c.StringSlice("client"))
	if c.Bool("plain") {
		_, err := fmt.Fprintln(c.App.Writer, mention.PlainText(segments))
		return err
	}
	return writeJSON(c, map[string]interface{}{
		"segments": segments,
	})
}

func newComposer(c *cli.Context) (*mention.Composer, error) {
	users, err := parseCandidates(c.StringSlice("user"), mention.KindUser)
	if err != nil {
		return nil, err
	}
	clients, err := parseCandidates(c.StringSlice("client"), mention.KindClient)
	if err != nil {
		return nil, err
	}

	positioner := mention.NewPositioner(
		mention.ColumnMetrics{},
		mention.Font{},
		mention.Layout{WrapWidth: float64(c.Int("width"))},
	)
	opts := []mention.Option{
		mention.WithDetector(mention.NewDetector(mention.WithClientPrefix(c.String("client-prefix")))),
		mention.WithPositioner(positioner),
		mention.WithPopupLimit(c.Int("limit")),
	}
	if c.Bool("lenient") {
		log := zerolog.New(zerolog.ConsoleWriter{Out: c.App.ErrWriter, NoColor: true})
		opts = append(opts, mention.WithLenient(log))
	}
	composer := mention.NewComposer(opts...)
	composer.SetPool(mention.KindUser, users)
	composer.SetPool(mention.KindClient, clients)
	return composer, nil
}

// parseCandidates reads ID:TOKEN pairs. The token may itself contain colons.
func parseCandidates(values []string, kind mention.Kind) ([]mention.Candidate, error) {
	candidates := make([]mention.Candidate, 0, len(values))
	for _, v := range values {
		id, token, ok := strings.Cut(v, ":")
		if !ok || id == "" || token == "" {
			return nil, fmt.Errorf("invalid %s candidate %q, expected ID:NAME", strings.ToLower(string(kind)), v)
		}
		candidates = append(candidates, mention.Candidate{ID: id, Kind: kind, DisplayToken: token})
	}
	return candidates, nil
}

func textAndCaret(c *cli.Context) (string, int) {
	text := c.String("text")
	caret := c.Int("caret")
	if caret < 0 {
		caret = len([]rune(text))
	}
	return text, caret
}

func writeJSON(c *cli.Context, v interface{}) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
