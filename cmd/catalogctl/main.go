package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/opendatagr/geoview/pkg/catalog"
)

type App struct {
	dbFilename   string
	seedFilename string
	list         bool
}

func NewApp(dbFilename, seedFilename string, list bool) *App {
	return &App{
		dbFilename:   dbFilename,
		seedFilename: seedFilename,
		list:         list,
	}
}

func (app *App) Run() error {
	cat, err := catalog.Open(app.dbFilename)

	if err != nil {
		return err
	}

	defer cat.Close()

	if app.seedFilename != "" {
		n, err := catalog.ImportSeed(cat, app.seedFilename)

		if err != nil {
			return err
		}

		fmt.Printf("imported %d resources from %s\n", n, app.seedFilename)
	}

	if app.list {
		resources, err := cat.All()

		if err != nil {
			return err
		}

		for _, r := range resources {
			fmt.Printf("%s\t%s\t%s\t%s\n", r.ID, r.Format, r.Name, r.URL)
		}

		fmt.Printf("total resources: %d\n", len(resources))
	}

	return nil
}

func main() {
	var db = flag.String("db", "geoview.db", "catalog db path")
	var list = flag.Bool("list", false, "list catalog resources")

	flag.Parse()

	h := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	slog.SetDefault(slog.New(h))

	seed := ""
	if len(flag.Args()) > 0 {
		seed = flag.Arg(0)
	}

	if seed == "" && !*list {
		fmt.Println("usage: catalogctl [-db path] [-list] [resources.yml]")
		return
	}

	if err := NewApp(*db, seed, *list).Run(); err != nil {
		fmt.Printf("error: %s\n", err.Error())
	}
}
