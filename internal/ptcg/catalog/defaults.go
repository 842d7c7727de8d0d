package catalog

// Default returns the built-in tables. Each call returns a fresh copy.
func Default() *Catalog {
	return &Catalog{
		RotatedCards: []string{
			"Lost Vacuum",
			"Cross Switcher",
			"Battle VIP Pass",
			"Path to the Peak",
			"Double Turbo Energy",
			"Radiant Greninja",
			"Comfey",
			"Colress's Experiment",
			"Mirage Gate",
			"Lugia VSTAR",
			"Archeops",
			"Irida",
			"Capturing Aroma",
			"Quick Ball",
			"Evolution Incense",
			"Marnie",
			"Twin Energy",
			"Aurora Energy",
			"Choice Belt",
			"Lumineon V",
			"Energy Switch",
		},
		ReprintExceptions: []ReprintException{
			{Name: "Energy Switch", SetID: "sv1"},
		},
		FormatReplacements: []FormatReplacement{
			{Card: "Quick Ball", Suggestion: "Replace Quick Ball with Nest Ball or Ultra Ball"},
			{Card: "Marnie", Suggestion: "Replace Marnie with Iono"},
			{Card: "Cross Switcher", Suggestion: "Replace Cross Switcher with Boss's Orders or Counter Catcher"},
			{Card: "Battle VIP Pass", Suggestion: "Replace Battle VIP Pass with Buddy-Buddy Poffin"},
			{Card: "Path to the Peak", Suggestion: "Use a legal Stadium such as Jamming Tower to counter rule-box abilities"},
			{Card: "Double Turbo Energy", Suggestion: "Replace Double Turbo Energy with Jet Energy or basic Energy"},
			{Card: "Lumineon V", Suggestion: "Use Squawkabilly ex or Fezandipiti ex as a draw engine"},
			{Card: "Colress's Experiment", Suggestion: "Replace Colress's Experiment with Professor's Research"},
			{Card: "Evolution Incense", Suggestion: "Replace Evolution Incense with Ultra Ball"},
			{Card: "Choice Belt", Suggestion: "Replace Choice Belt with Maximum Belt or Defiance Band"},
		},
		RainbowMarkers:   []string{"rainbow", "aurora", "prism"},
		ColorlessMarkers: []string{"twin", "double"},
		EvolutionChains: []EvolutionChain{
			{Basic: "Charmander", Stage1: []string{"Charmeleon"}, Stage2: []string{"Charizard ex", "Charizard"}},
			{Basic: "Ralts", Stage1: []string{"Kirlia"}, Stage2: []string{"Gardevoir ex", "Gardevoir"}},
			{Basic: "Pidgey", Stage1: []string{"Pidgeotto"}, Stage2: []string{"Pidgeot ex", "Pidgeot"}},
			{Basic: "Frigibax", Stage1: []string{"Arctibax"}, Stage2: []string{"Baxcalibur"}},
			{Basic: "Dreepy", Stage1: []string{"Drakloak"}, Stage2: []string{"Dragapult ex", "Dragapult"}},
			{Basic: "Duskull", Stage1: []string{"Dusclops"}, Stage2: []string{"Dusknoir"}},
			{Basic: "Tinkatink", Stage1: []string{"Tinkatuff"}, Stage2: []string{"Tinkaton ex", "Tinkaton"}},
			{Basic: "Froakie", Stage1: []string{"Frogadier"}, Stage2: []string{"Greninja ex", "Greninja"}},
			{Basic: "Gible", Stage1: []string{"Gabite"}, Stage2: []string{"Garchomp ex", "Garchomp"}},
			{Basic: "Magnemite", Stage1: []string{"Magneton"}, Stage2: []string{"Magnezone"}},
			{Basic: "Abra", Stage1: []string{"Kadabra"}, Stage2: []string{"Alakazam ex", "Alakazam"}},
			{Basic: "Bidoof", Stage1: []string{"Bibarel"}},
			{Basic: "Gimmighoul", Stage1: []string{"Gholdengo ex", "Gholdengo"}},
			{Basic: "Charcadet", Stage1: []string{"Armarouge", "Ceruledge ex", "Ceruledge"}},
			{Basic: "Riolu", Stage1: []string{"Lucario ex", "Lucario"}},
		},
		EvolutionSuffixes: []string{" vmax", " vstar", " v", " ex", " gx"},
		RareCandy:         "Rare Candy",
		StrategyRules: []StrategyRule{
			{All: []string{"charizard", "pidgeot"}, Label: "Charizard Pidgeot Control"},
			{All: []string{"charizard"}, Label: "Charizard ex Toolbox"},
			{All: []string{"gardevoir"}, Label: "Gardevoir Psychic Embrace"},
			{All: []string{"lugia"}, Any: []string{"archeops"}, Label: "Lugia Archeops"},
			{All: []string{"miraidon"}, Label: "Miraidon Lightning Box"},
			{All: []string{"giratina"}, Label: "Giratina Lost Zone"},
			{Any: []string{"comfey", "sableye", "cramorant"}, Label: "Lost Zone Toolbox"},
			{All: []string{"baxcalibur"}, Any: []string{"chien-pao", "palkia"}, Label: "Baxcalibur Water Engine"},
			{All: []string{"dragapult"}, Label: "Dragapult Spread"},
			{All: []string{"roaring moon"}, Label: "Ancient Roaring Moon"},
			{Any: []string{"iron hands", "iron crown", "iron valiant"}, Label: "Future Box"},
			{All: []string{"gholdengo"}, Label: "Gholdengo Metal Rush"},
			{All: []string{"regidrago"}, Label: "Regidrago Dragon Toolbox"},
			{All: []string{"snorlax"}, Label: "Snorlax Stall"},
		},
		OpponentRoster: []Opponent{
			{Name: "Charizard ex", Prizes: 2, HP: 330},
			{Name: "Gardevoir ex", Prizes: 2, HP: 310},
			{Name: "Giratina VSTAR", Prizes: 3, HP: 280},
			{Name: "Miraidon ex", Prizes: 2, HP: 220},
			{Name: "Roaring Moon ex", Prizes: 2, HP: 230},
			{Name: "Comfey", Prizes: 1, HP: 70},
		},
		StapleTrainers: []string{
			"Ultra Ball",
			"Nest Ball",
			"Professor's Research",
			"Iono",
			"Boss's Orders",
			"Rare Candy",
			"Arven",
			"Buddy-Buddy Poffin",
			"Switch",
			"Super Rod",
			"Earthen Vessel",
			"Counter Catcher",
		},
		UpgradeTiers: []UpgradeTier{
			{
				Name:        "Consistency Core",
				Description: "Max out search and draw so the deck finds its attackers every game.",
				Cards: []UpgradeCard{
					{Name: "Nest Ball", Quantity: 4, Price: 0.5},
					{Name: "Ultra Ball", Quantity: 4, Price: 1.0},
					{Name: "Iono", Quantity: 4, Price: 3.0},
					{Name: "Arven", Quantity: 4, Price: 4.0},
				},
			},
			{
				Name:        "Draw Engine",
				Description: "Add an ability-based draw engine to recover from disruption.",
				Cards: []UpgradeCard{
					{Name: "Bidoof", Quantity: 2, Price: 0.25},
					{Name: "Bibarel", Quantity: 2, Price: 1.5},
					{Name: "Squawkabilly ex", Quantity: 1, Price: 6.0},
					{Name: "Fezandipiti ex", Quantity: 1, Price: 9.0},
				},
			},
			{
				Name:        "Competitive Staples",
				Description: "Gust and switching effects that win prize races.",
				Cards: []UpgradeCard{
					{Name: "Boss's Orders", Quantity: 3, Price: 2.0},
					{Name: "Counter Catcher", Quantity: 2, Price: 2.0},
					{Name: "Prime Catcher", Quantity: 1, Price: 8.0},
					{Name: "Forest Seal Stone", Quantity: 1, Price: 5.0},
				},
			},
			{
				Name:        "Tournament Finish",
				Description: "Tech cards and premium versions for a tournament-ready list.",
				Cards: []UpgradeCard{
					{Name: "Technical Machine: Evolution", Quantity: 2, Price: 1.5},
					{Name: "Canceling Cologne", Quantity: 1, Price: 2.0},
					{Name: "Lost City", Quantity: 1, Price: 1.0},
					{Name: "Maximum Belt", Quantity: 1, Price: 12.0},
				},
			},
		},
	}
}
