package plants

// Import this file's dependencies
import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/gazebo-web/gz-go/v7"
	"github.com/jinzhu/gorm"
	"github.com/nekosafe-web/plant-server/globals"
)

// This is the structure of the data stored in the plants index.
type plantElastic struct {
	Name           string `json:"name"`
	ScientificName string `json:"scientific_name,omitempty"`
	Family         string `json:"family,omitempty"`
	Genus          string `json:"genus,omitempty"`
	Species        string `json:"species,omitempty"`
	Description    string `json:"description,omitempty"`
	Creator        string `json:"creator,omitempty"`
}

// ElasticSearchRemovePlant removes a plant from elastic search
func ElasticSearchRemovePlant(ctx context.Context, plantID uint) {
	if globals.ElasticSearch == nil {
		return
	}

	// Set up the request object.
	req := esapi.DeleteRequest{
		Index:      "nekosafe_plants",
		DocumentID: strconv.FormatUint(uint64(plantID), 10),
		Refresh:    "true",
	}

	// Perform the request with the client.
	_, err := req.Do(context.Background(), globals.ElasticSearch)
	if err != nil {
		gz.LoggerFromContext(ctx).Critical("Error getting response:", err)
	}
}

// ElasticSearchUpdatePlant will update ElasticSearch with a single plant.
func ElasticSearchUpdatePlant(ctx context.Context, plant Plant) {
	if globals.ElasticSearch == nil {
		return
	}

	// Build the ElasticSearch struct.
	p := plantElastic{
		Name: *plant.Name,
	}
	if plant.ScientificName != nil {
		p.ScientificName = *plant.ScientificName
	}
	if plant.Family != nil {
		p.Family = *plant.Family
	}
	if plant.Genus != nil {
		p.Genus = *plant.Genus
	}
	if plant.Species != nil {
		p.Species = *plant.Species
	}
	if plant.Description != nil {
		p.Description = *plant.Description
	}
	if plant.Creator != nil {
		p.Creator = *plant.Creator
	}

	// Create the json representation
	jsonPlant, _ := json.Marshal(&p)

	// Set up the request object.
	req := esapi.IndexRequest{
		Index:      "nekosafe_plants",
		DocumentID: strconv.FormatUint(uint64(plant.ID), 10),
		Body:       strings.NewReader(string(jsonPlant)),
		Refresh:    "true",
	}

	// Perform the request with the client.
	add, err := req.Do(context.Background(), globals.ElasticSearch)
	if err != nil {
		gz.LoggerFromContext(ctx).Critical("Error getting response:", err)
		return
	}
	defer add.Body.Close()

	if add.IsError() {
		gz.LoggerFromContext(ctx).Error("[", add.Status(), "] Error indexing document ID:", plant.ID)
	} else {
		// Deserialize the response into a map.
		var r map[string]interface{}
		if err := json.NewDecoder(add.Body).Decode(&r); err != nil {
			gz.LoggerFromContext(ctx).Error("Error parsing the response body:", err)
		} else {
			gz.LoggerFromContext(ctx).Debug("[", add.Status(), "] ", r["result"])
		}
	}
}

// ElasticSearchUpdateAll will update ElasticSearch with all the plants in the
// SQL database.
func ElasticSearchUpdateAll(ctx context.Context, tx *gorm.DB) {
	if globals.ElasticSearch == nil {
		return
	}

	// Make sure that we have a Plant table.
	if hasTable := tx.HasTable(&Plant{}); hasTable {
		var plantList Plants

		// Get all the plants
		tx.Find(&plantList)

		// TODO: Use the Bulk ElasticSearch API.

		// Add each plant to ElasticSearch.
		for _, plant := range plantList {
			ElasticSearchUpdatePlant(ctx, plant)
		}
	}
}
