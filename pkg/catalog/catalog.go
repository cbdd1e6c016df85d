package catalog

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/opendatagr/geoview/pkg/model"
)

// Catalog is the sqlite-backed resource registry.
type Catalog struct {
	db *sql.DB
}

func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)

	if err != nil {
		return nil, err
	}

	c := &Catalog{db: db}

	if err := c.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	return c, nil
}

func (c *Catalog) createTables() error {
	_, err := c.db.Exec("CREATE TABLE IF NOT EXISTS resources (" +
		"id TEXT PRIMARY KEY," +
		"package_id TEXT NOT NULL DEFAULT ''," +
		"name TEXT NOT NULL DEFAULT ''," +
		"url TEXT NOT NULL DEFAULT ''," +
		"format TEXT NOT NULL DEFAULT ''," +
		"mimetype TEXT NOT NULL DEFAULT ''," +
		"url_type TEXT NOT NULL DEFAULT '');")

	return err
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

func (c *Catalog) Upsert(res *model.Resource) error {
	if res.ID == "" {
		return fmt.Errorf("resource without id")
	}

	_, err := c.db.Exec(
		"INSERT INTO resources (id, package_id, name, url, format, mimetype, url_type) VALUES (?,?,?,?,?,?,?) "+
			"ON CONFLICT(id) DO UPDATE SET package_id=excluded.package_id, name=excluded.name, "+
			"url=excluded.url, format=excluded.format, mimetype=excluded.mimetype, url_type=excluded.url_type",
		res.ID, res.PackageID, res.Name, res.URL, res.Format, res.Mimetype, res.URLType)

	return err
}

func (c *Catalog) Get(id string) (*model.Resource, error) {
	row := c.db.QueryRow(
		"SELECT id, package_id, name, url, format, mimetype, url_type FROM resources WHERE id=?", id)

	res := &model.Resource{}
	err := row.Scan(&res.ID, &res.PackageID, &res.Name, &res.URL, &res.Format, &res.Mimetype, &res.URLType)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return res, nil
}

func (c *Catalog) All() ([]*model.Resource, error) {
	rows, err := c.db.Query(
		"SELECT id, package_id, name, url, format, mimetype, url_type FROM resources ORDER BY id")
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var res []*model.Resource

	for rows.Next() {
		r := &model.Resource{}
		if err := rows.Scan(&r.ID, &r.PackageID, &r.Name, &r.URL, &r.Format, &r.Mimetype, &r.URLType); err != nil {
			return nil, err
		}
		res = append(res, r)
	}

	return res, rows.Err()
}

func (c *Catalog) Remove(id string) error {
	_, err := c.db.Exec("DELETE FROM resources WHERE id=?", id)
	return err
}

// RemoveUploads drops all upload-typed resources, ahead of a re-scan of the
// uploads directory.
func (c *Catalog) RemoveUploads() error {
	_, err := c.db.Exec("DELETE FROM resources WHERE url_type='upload'")
	return err
}
