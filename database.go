package main

// Import this file's dependencies
import (
	"context"

	_ "github.com/go-sql-driver/mysql"
	"github.com/gazebo-web/gz-go/v7"
	"github.com/jinzhu/gorm"
	"github.com/nekosafe-web/plant-server/bundles/evaluations"
	"github.com/nekosafe-web/plant-server/bundles/plants"
	"github.com/nekosafe-web/plant-server/bundles/users"
	"github.com/nekosafe-web/plant-server/globals"
)

// DBMigrate auto migrates database tables
func DBMigrate(ctx context.Context, db *gorm.DB) {
	// Note about Migration from GORM doc: http://jinzhu.me/gorm/database.html#migration
	//
	// WARNING: AutoMigrate will ONLY create tables, missing columns and missing indexes,
	// and WON'T change existing column's type or delete unused columns to protect your data.
	//

	if db != nil {
		db.AutoMigrate(
			&gz.AccessToken{},
			&users.User{},
			&users.Pet{},
			&plants.Plant{},
			&plants.PlantImage{},
			&plants.PlantFavorite{},
			&plants.PlantHave{},
			&evaluations.Evaluation{},
			&evaluations.EvaluationImage{},
			&evaluations.Reaction{},
			&ElasticSearchConfig{},
			globals.Permissions.DBTable(),
		)
	}
}

// DBDropTables drops all tables from DB. Used by tests.
func DBDropTables(ctx context.Context, db *gorm.DB) {
	if db != nil {
		// First remove added FKs
		db.Model(&plants.Plant{}).RemoveForeignKey("creator", "users(username)")
		db.Model(&plants.PlantImage{}).RemoveForeignKey("plant_id", "plants(id)")
		db.Model(&evaluations.Evaluation{}).RemoveForeignKey("plant_id", "plants(id)")
		db.Model(&evaluations.EvaluationImage{}).RemoveForeignKey("evaluation_id", "evaluations(id)")
		db.Model(&evaluations.Reaction{}).RemoveForeignKey("evaluation_id", "evaluations(id)")

		// IMPORTANT NOTE: DROP TABLE order is important, due to FKs
		db.DropTableIfExists(
			&evaluations.Reaction{},
			&evaluations.EvaluationImage{},
			&evaluations.Evaluation{},
			&plants.PlantHave{},
			&plants.PlantFavorite{},
			&plants.PlantImage{},
			&plants.Plant{},
			&users.Pet{},
			&users.User{},
			&ElasticSearchConfig{},
			&gz.AccessToken{},
			globals.Permissions.DBTable(),
		)
	}
}

// plantDesc is used by DBAddDefaultData.
type plantDesc struct {
	name           string
	scientificName string
	family         string
	description    string
	polarity       string
}

// DBAddDefaultData adds default data. Eg. well known plants.
func DBAddDefaultData(ctx context.Context, db *gorm.DB) {

	if db == nil {
		return
	}

	// A starter set of plants every cat owner asks about. The Create calls
	// return an error if the name already exists, which we ignore.
	defaultPlants := []plantDesc{
		{"Lily", "Lilium", "Liliaceae",
			"All true lilies are extremely toxic to cats. Even pollen or vase water can cause kidney failure.",
			plants.PolarityBad},
		{"Cat Grass", "Avena sativa", "Poaceae",
			"Oat grass grown for cats to nibble on.",
			plants.PolarityGood},
		{"Catnip", "Nepeta cataria", "Lamiaceae",
			"The classic. Safe for cats in any quantity they care to take.",
			plants.PolarityGood},
		{"Pothos", "Epipremnum aureum", "Araceae",
			"Contains insoluble calcium oxalates. Chewing causes oral irritation and vomiting.",
			plants.PolarityBad},
		{"Spider Plant", "Chlorophytum comosum", "Asparagaceae",
			"Non-toxic, though cats love to chew the leaves.",
			plants.PolarityGood},
		{"Sago Palm", "Cycas revoluta", "Cycadaceae",
			"Severely toxic. Ingestion of any part can cause liver failure.",
			plants.PolarityBad},
	}

	for _, p := range defaultPlants {
		name, sciName, family, desc := p.name, p.scientificName, p.family, p.description
		plant := plants.Plant{
			Name:           &name,
			ScientificName: &sciName,
			Family:         &family,
			Description:    &desc,
		}
		if err := db.Create(&plant).Error; err != nil {
			// Already present.
			continue
		}
		// Seed a single editorial evaluation so the derived safety label
		// matches the description from day one.
		author, polarity := "nekosafe", p.polarity
		eval := evaluations.Evaluation{
			PlantID:  plant.ID,
			Username: &author,
			Polarity: &polarity,
		}
		db.Create(&eval)
	}
}

// DBAddCustomIndexes allows application to add custom indexes that cannot be
// added automatically by GORM.
func DBAddCustomIndexes(ctx context.Context, db *gorm.DB) {
	// TIP: command to check for existing foreign keys in db:
	// SELECT TABLE_NAME, COLUMN_NAME, CONSTRAINT_NAME, REFERENCED_TABLE_NAME, REFERENCED_COLUMN_NAME FROM INFORMATION_SCHEMA.KEY_COLUMN_USAGE WHERE REFERENCED_TABLE_SCHEMA = 'nekosafe';
	db.Model(&plants.PlantImage{}).AddForeignKey("plant_id", "plants(id)", "RESTRICT", "RESTRICT")
	db.Model(&evaluations.Evaluation{}).AddForeignKey("plant_id", "plants(id)", "RESTRICT", "RESTRICT")
	db.Model(&evaluations.EvaluationImage{}).AddForeignKey("evaluation_id", "evaluations(id)", "RESTRICT", "RESTRICT")
	db.Model(&evaluations.Reaction{}).AddForeignKey("evaluation_id", "evaluations(id)", "RESTRICT", "RESTRICT")

	// Index backing the list queries that sort and search on plant names.
	found, err := indexIsPresent(db, "plants", "plants_fulltext")
	if err != nil {
		gz.LoggerFromContext(ctx).Critical("Error with DB while checking index", err)
		return
	}
	if !found {
		db.Exec("ALTER TABLE plants ADD FULLTEXT plants_fulltext (name, description);")
	}
	// TIP: You can check created indexes by executing in mysql: `show index from plants;`
}

// indexIsPresent returns true if the index with name idxName already exists in the given table
func indexIsPresent(db *gorm.DB, table string, idxName string) (bool, error) {
	// Raw SQL
	rows, err := db.Raw("select * from information_schema.statistics where table_schema=database() and table_name=? and index_name=?;",
		table, idxName).Rows()
	if err != nil {
		return false, err
	}
	defer rows.Close()
	return rows.Next(), nil
}
