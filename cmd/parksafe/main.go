package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	_ "modernc.org/sqlite"

	"github.com/mkaplinsky/parksafe/internal/ingest"
	"github.com/mkaplinsky/parksafe/internal/metrics"
	"github.com/mkaplinsky/parksafe/internal/models"
	"github.com/mkaplinsky/parksafe/internal/narrative"
	"github.com/mkaplinsky/parksafe/internal/pipeline"
	"github.com/mkaplinsky/parksafe/internal/report"
	"github.com/mkaplinsky/parksafe/internal/store"
)

type cli struct {
	Report reportCmd `cmd:"" default:"withargs" help:"Run the analysis and render the report."`
	Fetch  fetchCmd  `cmd:"" help:"Download the source datasets."`
}

type reportCmd struct {
	Incidents string `default:"data/crime_records.csv" help:"Crime incident CSV." type:"existingfile"`
	Census    string `default:"data/census_2016.csv" help:"Census profile CSV." type:"existingfile"`
	DB        string `default:"data/parksafe.db" help:"SQLite database path."`
	Out       string `default:"out" help:"Output directory for the report."`

	YearFrom             int `default:"2003" help:"First year of incidents to include."`
	YearTo               int `default:"2018" help:"Last year of incidents to include."`
	CensusYear           int `default:"2016" help:"Year the census population describes."`
	PopulationVariableID int `default:"1" name:"population-variable-id" help:"Census variable ID holding total population."`
	TopStreets           int `default:"25" help:"How many streets to rank."`
	MapLimit             int `default:"0" help:"Cap on mapped incidents, 0 for all."`

	Narrative   bool   `default:"true" negatable:"" help:"Generate the narrative paragraph with OpenAI when a key is set."`
	MetricsFile string `help:"Write run metrics in Prometheus text format to this path."`
}

type fetchCmd struct {
	IncidentsURL string `default:"https://geodash.vpd.ca/opendata/crimedata_download/crimedata_csv_all_years.zip" help:"Crime dataset URL."`
	CensusURL    string `default:"https://webtransfer.vancouver.ca/opendata/csv/CensusLocalAreaProfiles2016.csv" help:"Census profile URL."`
	Dir          string `default:"data" help:"Directory to download into."`
}

func (c *reportCmd) Run() error {
	res, err := pipeline.Run(pipeline.Config{
		IncidentsPath:        c.Incidents,
		CensusPath:           c.Census,
		YearFrom:             c.YearFrom,
		YearTo:               c.YearTo,
		CensusYear:           c.CensusYear,
		PopulationVariableID: c.PopulationVariableID,
		TopStreets:           c.TopStreets,
	})
	if err != nil {
		return err
	}

	mappable, err := c.persist(res)
	if err != nil {
		return err
	}

	data := report.Data{
		YearFrom:    c.YearFrom,
		YearTo:      c.YearTo,
		CensusYear:  c.CensusYear,
		TheftCount:  len(res.Thefts),
		ZeroEasting: res.ZeroEasting,
		ByYear:      res.ByYear,
		PerCapita:   res.PerCapita,
		TopStreets:  res.TopStreets,
		ByHour:      res.ByHour,
		Unmatched:   res.Unmatched,
		Mappable:    mappable,
	}
	data.Narrative = c.narrative(data)

	if err := report.NewRenderer().WriteAll(c.Out, data); err != nil {
		return err
	}
	log.Printf("report written to %s", c.Out)

	if c.MetricsFile != "" {
		if err := metrics.WriteTextfile(c.MetricsFile); err != nil {
			return err
		}
		log.Printf("metrics written to %s", c.MetricsFile)
	}
	return nil
}

// persist writes the run into SQLite and reads the mappable thefts back,
// so the map reflects what the database says rather than in-memory state.
func (c *reportCmd) persist(res *pipeline.Result) ([]models.Incident, error) {
	if err := os.MkdirAll(filepath.Dir(c.DB), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", c.DB)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	if err := st.ReplaceIncidents(res.Incidents); err != nil {
		return nil, err
	}
	if err := st.ReplaceCensus(res.Census); err != nil {
		return nil, err
	}
	if err := st.SaveYearCounts(res.ByYear); err != nil {
		return nil, err
	}
	if err := st.SaveNeighbourhoodRates(res.PerCapita); err != nil {
		return nil, err
	}
	if err := st.SaveStreetCounts(res.ByStreet); err != nil {
		return nil, err
	}
	if err := st.SaveHourCounts(res.ByHour); err != nil {
		return nil, err
	}

	stored, err := st.CountThefts(c.YearFrom, c.YearTo)
	if err != nil {
		return nil, err
	}
	if stored != len(res.Thefts) {
		return nil, fmt.Errorf("stored theft count %d does not match pipeline count %d", stored, len(res.Thefts))
	}
	log.Printf("persisted %d incidents (%d thefts) to %s", len(res.Incidents), stored, c.DB)

	return st.GetMappableThefts(c.YearFrom, c.YearTo, c.MapLimit)
}

func (c *reportCmd) narrative(data report.Data) string {
	stats := narrative.Stats{
		TheftCount: data.TheftCount,
		YearFrom:   data.YearFrom,
		YearTo:     data.YearTo,
		PeakHour:   data.PeakHour(),
		TopStreet:  data.TopStreet(),
	}
	for _, row := range data.PerCapita {
		if !row.PerThousand.Valid {
			continue
		}
		rate := row.PerThousand.Float64
		if stats.WorstNeighbourhood == "" || rate > stats.WorstRate {
			stats.WorstNeighbourhood, stats.WorstRate = row.Neighbourhood, rate
		}
		if stats.SafestNeighbourhood == "" || rate < stats.SafestRate {
			stats.SafestNeighbourhood, stats.SafestRate = row.Neighbourhood, rate
		}
	}

	if !c.Narrative {
		return narrative.Fallback(stats)
	}
	gen, err := narrative.NewGenerator()
	if err != nil {
		log.Printf("narrative generation unavailable (%v), using fallback", err)
		return narrative.Fallback(stats)
	}
	text, err := gen.Generate(context.Background(), stats)
	if err != nil {
		log.Printf("narrative generation failed (%v), using fallback", err)
		return narrative.Fallback(stats)
	}
	return text
}

func (c *fetchCmd) Run() error {
	f := ingest.NewFetcher()
	ctx := context.Background()

	downloads := []struct{ url, dest string }{
		{c.IncidentsURL, filepath.Join(c.Dir, filepath.Base(c.IncidentsURL))},
		{c.CensusURL, filepath.Join(c.Dir, filepath.Base(c.CensusURL))},
	}
	for _, d := range downloads {
		log.Printf("downloading %s", d.url)
		if err := f.Download(ctx, d.url, d.dest); err != nil {
			return err
		}
		log.Printf("saved %s", d.dest)
	}
	return nil
}

func main() {
	var c cli
	ctx := kong.Parse(&c,
		kong.Name("parksafe"),
		kong.Description("Auto theft analysis: where is it safe to park?"),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
		kong.UsageOnError(),
	)
	if err := ctx.Run(); err != nil {
		log.Fatalf("%s: %v", ctx.Command(), err)
	}
}
