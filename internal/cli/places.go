package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hubmap/pkg/geo"
	"github.com/matzehuels/hubmap/pkg/places"
)

type placesOpts struct {
	mongoURI        string
	mongoDB         string
	mongoCollection string
	export          bool
	seedMongo       bool
}

func (c *CLI) placesCommand() *cobra.Command {
	var opts placesOpts

	cmd := &cobra.Command{
		Use:   "places [places.toml]",
		Short: "List the places drawn on the map",
		Long: `Places lists the places in registry order; the first one is the hub.

With --export the places are printed as a TOML places file. With --seed-mongo
they are written to the configured MongoDB collection.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pc := &c.Config.Places
			if cmd.Flags().Changed("mongo-uri") {
				pc.MongoURI = opts.mongoURI
			}
			if cmd.Flags().Changed("mongo-db") {
				pc.MongoDB = opts.mongoDB
			}
			if cmd.Flags().Changed("mongo-collection") {
				pc.MongoCollection = opts.mongoCollection
			}
			var file string
			if len(args) == 1 {
				file = args[0]
			}
			return c.runPlaces(cmd.Context(), file, opts)
		},
	}

	d := c.Config.Places
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "", "read places from MongoDB at this URI")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", d.MongoDB, "MongoDB database")
	cmd.Flags().StringVar(&opts.mongoCollection, "mongo-collection", d.MongoCollection, "MongoDB collection")
	cmd.Flags().BoolVar(&opts.export, "export", false, "print places as TOML")
	cmd.Flags().BoolVar(&opts.seedMongo, "seed-mongo", false, "write the places to MongoDB")

	return cmd
}

func (c *CLI) runPlaces(ctx context.Context, file string, opts placesOpts) error {
	store, err := c.openCache(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	// Seeding reads from a file or the built-in list, never from Mongo itself.
	var src places.Source = places.Builtin
	if !opts.seedMongo || file != "" || c.Config.Places.File != "" {
		var closeFn func()
		src, closeFn, err = c.placesSource(ctx, file, store)
		if err != nil {
			return err
		}
		defer closeFn()
	}
	ps, err := src.Places(ctx)
	if err != nil {
		return err
	}

	switch {
	case opts.seedMongo:
		return c.seedMongo(ctx, ps)
	case opts.export:
		data, err := places.Encode(ps)
		if err != nil {
			return err
		}
		_, err = stdout.Write(data)
		return err
	}

	if len(ps) == 0 {
		printWarning("No places found")
		return nil
	}
	pts, err := places.ToPoints(ps)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, placesTable(ps, pts))
	printDetail("%d places, hub %s", len(ps), pts[0].Name)
	return nil
}

func (c *CLI) seedMongo(ctx context.Context, ps []places.Place) error {
	pc := c.Config.Places
	if pc.MongoURI == "" {
		return fmt.Errorf("--seed-mongo needs --mongo-uri or places.mongo_uri")
	}
	m, err := places.DialMongo(ctx, pc.MongoURI, pc.MongoDB, pc.MongoCollection)
	if err != nil {
		return err
	}
	defer m.Close(context.Background())
	if err := m.Insert(ctx, ps); err != nil {
		return err
	}
	printSuccess("Wrote %d places to %s.%s", len(ps), pc.MongoDB, pc.MongoCollection)
	return nil
}

// placesTable renders places with their resolved points. pts[i] belongs to
// ps[i].
func placesTable(ps []places.Place, pts []geo.Point) string {
	rows := make([][]string, len(ps))
	for i, p := range ps {
		icon := iconPoint
		if i == 0 {
			icon = iconHub
		}
		country := p.Country
		if name, ok := places.CountryName(p.Country); ok {
			country = name
		}
		highlight := ""
		if p.Highlighted {
			highlight = iconSuccess
		}
		rows[i] = []string{
			swatch(pts[i].Color, icon),
			p.Name,
			fmt.Sprintf("%.4f", p.Lat),
			fmt.Sprintf("%.4f", p.Lng),
			country,
			highlight,
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Place", "Lat", "Lng", "Country", "Highlight").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return styleHeader
			case row == 0 && col == 1:
				return StyleTitle
			case col == 2 || col == 3:
				return StyleDim
			}
			return lipgloss.NewStyle()
		}).
		Render()
}
