/*
 * Copyright 2025 Google LLC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *    https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package schema

import "github.com/benaspinall1/aircraft-inventory-optimization/internal/dataset"

const (
	AircraftParts      = "aircraft_parts"
	WarehouseLocations = "warehouse_locations"
	SupplierLeadTimes  = "supplier_lead_times"
	DailyDemand        = "daily_demand"
	StockLevels        = "stock_levels"
	Orders             = "orders"
)

func intCol(name string) Column { return Column{Name: name, Type: dataset.Integer} }
func textCol(name string) Column { return Column{Name: name, Type: dataset.Text} }
func realCol(name string) Column { return Column{Name: name, Type: dataset.Real} }

func notNull(c Column) Column {
	c.NotNull = true
	return c
}

func primaryKey(c Column, autoIncrement bool) Column {
	c.PrimaryKey = true
	c.AutoIncrement = autoIncrement
	return c
}

func partFK() ForeignKey {
	return ForeignKey{Column: "part_id", RefTable: AircraftParts, RefColumn: "part_id"}
}

func locationFK() ForeignKey {
	return ForeignKey{Column: "location_id", RefTable: WarehouseLocations, RefColumn: "location_id"}
}

// Supply returns the aircraft spare-parts supply chain tables.
func Supply() *Catalog {
	c, err := NewCatalog(
		Table{
			Name: AircraftParts,
			Columns: []Column{
				primaryKey(intCol("part_id"), false),
				notNull(textCol("part_code")),
				textCol("category"),
				notNull(textCol("description")),
				intCol("ata_chapter"),
				textCol("criticality"),
				notNull(realCol("unit_cost_usd")),
				notNull(intCol("lead_time_days")),
			},
		},
		Table{
			Name: WarehouseLocations,
			Columns: []Column{
				primaryKey(textCol("location_id"), false),
				notNull(textCol("facility_code")),
				notNull(textCol("location_type")),
				notNull(intCol("max_capacity_units")),
				textCol("temperature_control"),
				textCol("hazmat_rating"),
				textCol("is_secure"),
				textCol("notes"),
			},
		},
		Table{
			Name: SupplierLeadTimes,
			Columns: []Column{
				primaryKey(intCol("lead_time_id"), true),
				notNull(intCol("part_id")),
				notNull(textCol("supplier_name")),
				intCol("min_lead_time_days"),
				notNull(intCol("avg_lead_time_days")),
				intCol("max_lead_time_days"),
			},
			ForeignKeys: []ForeignKey{partFK()},
		},
		Table{
			Name: DailyDemand,
			Columns: []Column{
				primaryKey(intCol("demand_id"), true),
				notNull(intCol("part_id")),
				notNull(textCol("location_id")),
				notNull(textCol("demand_date")),
				notNull(intCol("demand_quantity")),
			},
			ForeignKeys: []ForeignKey{partFK(), locationFK()},
		},
		Table{
			Name: StockLevels,
			Columns: []Column{
				primaryKey(intCol("stock_level_id"), true),
				notNull(intCol("part_id")),
				notNull(textCol("location_id")),
				notNull(intCol("quantity_on_hand")),
				notNull(textCol("snapshot_date")),
			},
			ForeignKeys: []ForeignKey{partFK(), locationFK()},
		},
		Table{
			Name: Orders,
			Columns: []Column{
				primaryKey(intCol("order_id"), true),
				notNull(intCol("part_id")),
				textCol("location_id"),
				notNull(textCol("order_date")),
				notNull(intCol("quantity_ordered")),
				textCol("order_type"),
				textCol("due_date"),
			},
			ForeignKeys: []ForeignKey{partFK(), locationFK()},
		},
	)
	if err != nil {
		panic(err)
	}
	return c
}

// Targets lists the columns of one table that each corruption kind may touch.
type Targets struct {
	Negatable   []string
	Outlier     []string
	Corruptible []string
}

// SupplyTargets returns the corruption targets for the supply tables. Tables
// not listed here are loaded clean.
func SupplyTargets() map[string]Targets {
	return map[string]Targets{
		DailyDemand: {
			Negatable:   []string{"demand_quantity"},
			Outlier:     []string{"demand_quantity"},
			Corruptible: []string{"demand_quantity", "demand_date", "location_id"},
		},
		Orders: {
			Negatable:   []string{"quantity_ordered"},
			Outlier:     []string{"quantity_ordered"},
			Corruptible: []string{"location_id", "quantity_ordered", "order_type", "due_date"},
		},
		StockLevels: {
			Negatable:   []string{"quantity_on_hand"},
			Outlier:     []string{"quantity_on_hand"},
			Corruptible: []string{"quantity_on_hand", "snapshot_date", "location_id"},
		},
		SupplierLeadTimes: {
			Negatable:   []string{"min_lead_time_days", "max_lead_time_days", "avg_lead_time_days"},
			Outlier:     []string{"avg_lead_time_days"},
			Corruptible: []string{"min_lead_time_days", "max_lead_time_days", "avg_lead_time_days"},
		},
	}
}
