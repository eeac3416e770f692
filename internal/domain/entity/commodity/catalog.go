package commodity

// CatalogEntry is one row of the static commodity catalog: a reference price
// and unit as quoted by the upstream price tables.
type CatalogEntry struct {
	ID       string
	Name     string
	Price    float64
	Unit     string
	Category Category
}

// Catalog returns the full tracked commodity list. The reference prices are
// only starting points for the simulated walk.
func Catalog() []CatalogEntry {
	return []CatalogEntry{
		{"crude-oil", "Crude Oil", 82.79, "USD/Bbl", CategoryEnergy},
		{"brent-oil", "Brent Oil", 84.91, "USD/Bbl", CategoryEnergy},
		{"natural-gas", "Natural Gas", 2.10, "USD/MMBtu", CategoryEnergy},
		{"heating-oil", "Heating Oil", 2.64, "USD/Gal", CategoryEnergy},
		{"gasoline", "Gasoline", 2.43, "USD/Gal", CategoryEnergy},
		{"london-gas-oil", "London Gas Oil", 735.38, "USD/MT", CategoryEnergy},
		{"coal", "Coal", 148.75, "USD/T", CategoryEnergy},
		{"ethanol", "Ethanol", 1.35, "USD/Gal", CategoryEnergy},
		{"carbon", "Carbon", 67.24, "EUR/MT", CategoryEnergy},
		{"uk-natural-gas", "UK Natural Gas", 88.52, "GBp/Thm", CategoryEnergy},
		{"ttf-gas", "TTF Gas", 33.05, "EUR/MWh", CategoryEnergy},

		{"gold", "Gold", 2381.90, "USD/t oz.", CategoryMetals},
		{"silver", "Silver", 28.14, "USD/t oz.", CategoryMetals},
		{"platinum", "Platinum", 943.80, "USD/t oz.", CategoryMetals},
		{"palladium", "Palladium", 1018.94, "USD/t oz.", CategoryMetals},
		{"copper", "Copper", 4.58, "USD/Lbs", CategoryMetals},
		{"aluminum", "Aluminum", 2394.75, "USD/T", CategoryMetals},
		{"zinc", "Zinc", 2756.50, "USD/T", CategoryMetals},
		{"nickel", "Nickel", 19046.00, "USD/T", CategoryMetals},
		{"lead", "Lead", 2155.25, "USD/T", CategoryMetals},
		{"iron-ore", "Iron Ore", 119.00, "USD/T", CategoryMetals},
		{"steel", "Steel", 3984.00, "CNY/T", CategoryMetals},
		{"tin", "Tin", 30212.00, "USD/T", CategoryMetals},
		{"lithium", "Lithium", 139000.00, "CNY/T", CategoryMetals},
		{"uranium", "Uranium", 90.25, "USD/Lbs", CategoryMetals},
		{"cobalt", "Cobalt", 34200.00, "USD/T", CategoryMetals},
		{"molybdenum", "Molybdenum", 27.38, "USD/Lbs", CategoryMetals},

		{"wheat", "Wheat", 604.00, "USd/Bu", CategoryAgriculture},
		{"corn", "Corn", 457.75, "USd/Bu", CategoryAgriculture},
		{"soybeans", "Soybeans", 1203.50, "USd/Bu", CategoryAgriculture},
		{"rice", "Rice", 17.01, "USD/cwt", CategoryAgriculture},
		{"oats", "Oats", 381.00, "USd/Bu", CategoryAgriculture},
		{"soybean-oil", "Soybean Oil", 49.71, "USd/Lbs", CategoryAgriculture},
		{"soybean-meal", "Soybean Meal", 353.90, "USD/T", CategoryAgriculture},
		{"palm-oil", "Palm Oil", 3814.00, "MYR/T", CategoryAgriculture},
		{"canola", "Canola", 714.80, "CAD/T", CategoryAgriculture},
		{"london-wheat", "London Wheat", 203.10, "GBP/MT", CategoryAgriculture},
		{"rapeseed", "Rapeseed", 502.75, "EUR/T", CategoryAgriculture},
		{"rough-rice", "Rough Rice", 16.12, "USD/cwt", CategoryAgriculture},
		{"feed-wheat", "Feed Wheat", 225.00, "GBP/T", CategoryAgriculture},
		{"hard-red-wheat", "Hard Red Wheat", 694.25, "USd/Bu", CategoryAgriculture},

		{"live-cattle", "Live Cattle", 187.38, "USd/Lbs", CategoryLivestock},
		{"feeder-cattle", "Feeder Cattle", 257.72, "USd/Lbs", CategoryLivestock},
		{"lean-hogs", "Lean Hogs", 94.85, "USd/Lbs", CategoryLivestock},
		{"class-iii-milk", "Class III Milk", 19.95, "USD/cwt", CategoryLivestock},
		{"live-hogs", "Live Hogs", 19883.00, "CNY/T", CategoryLivestock},
		{"pork-bellies", "Live Pork Bellies", 162.95, "USd/Lbs", CategoryLivestock},

		{"coffee", "Coffee", 2.24, "USD/Lbs", CategorySofts},
		{"cocoa", "Cocoa", 10084.00, "USD/T", CategorySofts},
		{"sugar", "Sugar", 19.99, "USd/Lbs", CategorySofts},
		{"orange-juice", "Orange Juice", 408.50, "USd/Lbs", CategorySofts},
		{"cotton", "Cotton", 80.10, "USd/Lbs", CategorySofts},
		{"lumber", "Lumber", 565.00, "USD/1000 bd ft", CategorySofts},
		{"rubber", "Rubber", 1.79, "USD/Kg", CategorySofts},
		{"robusta-coffee", "London Robusta Coffee", 3883.00, "USD/T", CategorySofts},
		{"london-sugar", "London Sugar", 481.00, "USD/T", CategorySofts},
		{"london-cocoa", "London Cocoa", 6503.00, "GBP/T", CategorySofts},

		{"commodity-index", "Commodity Index", 326.44, "Index Points", CategoryIndices},
		{"gold-miners-etf", "Gold Miners ETF", 33.24, "USD", CategoryIndices},
		{"usd-index", "USD Index", 104.00, "Index Points", CategoryIndices},
		{"sp-gsci", "S&P GSCI", 631.32, "Index Points", CategoryIndices},
		{"rogers-intl", "Rogers Intl", 2786.91, "Index Points", CategoryIndices},
		{"dj-commodity", "DJ Commodity", 454.81, "Index Points", CategoryIndices},
		{"msci-commodity-producers", "MSCI World Commodity Producers", 392.93, "Index Points", CategoryIndices},
	}
}
