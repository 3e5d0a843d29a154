package schema

// Example returns the suggested sales model: four dimensions around one
// sales fact table.
func Example() *Schema {
	return &Schema{
		Dimensions: []DimensionDef{
			{
				Name: "Dim_Customer", Rows: 200,
				Columns: []ColumnDef{
					{Name: "CustomerName", Type: Name},
					{Name: "Email", Type: Email},
					{Name: "City", Type: City},
					{Name: "Country", Type: Country},
					{Name: "Birthdate", Type: Birthdate},
				},
			},
			{
				Name: "Dim_Product", Rows: 50,
				Columns: []ColumnDef{
					{Name: "ProductName", Type: String},
					{Name: "Color", Type: Color},
					{Name: "ListPrice", Type: CurrencyAmount},
				},
			},
			{
				Name: "Dim_Store", Rows: 10,
				Columns: []ColumnDef{
					{Name: "StoreName", Type: Company},
					{Name: "Address", Type: StreetAddress},
					{Name: "State", Type: State},
				},
			},
			{
				Name: "Dim_Date", Rows: 365,
				Columns: []ColumnDef{
					{Name: "Date", Type: Date},
				},
			},
		},
		Facts: []FactDef{
			{
				Name: "Fact_Sales", Rows: 5000,
				Dimensions: []string{"Dim_Customer", "Dim_Product", "Dim_Store", "Dim_Date"},
				Columns: []ColumnDef{
					{Name: "Quantity", Type: Integer},
					{Name: "SalesAmount", Type: CurrencyAmount},
					{Name: "Channel", Type: Custom, Constant: "Retail"},
				},
			},
		},
	}
}
