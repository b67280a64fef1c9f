package category

// keywords is scanned in order; on equal match counts the earlier category wins.
// Repeated keywords are intentional and count once per occurrence.
var keywords = []struct {
	category Category
	words    []string
}{
	{FruitsVegetables, []string{
		"apple", "banana", "orange", "tomato", "potato", "onion", "carrot", "lettuce",
		"cucumber", "pepper", "broccoli", "spinach", "fruit", "vegetable", "salad",
		"äpple", "banan", "apelsin", "tomat", "potatis", "lök", "morot", "sallad",
	}},
	{MeatFish, []string{
		"beef", "chicken", "pork", "lamb", "turkey", "steak", "ground", "sausage", "bacon",
		"ham", "fish", "salmon", "tuna", "shrimp", "cod", "seafood",
		"nötkött", "kyckling", "fläsk", "lamm", "kalkon", "korv", "fisk", "lax",
	}},
	{DairyEggs, []string{
		"milk", "cheese", "butter", "yogurt", "cream", "egg", "dairy",
		"mjölk", "ost", "smör", "yoghurt", "grädde", "ägg",
	}},
	{BreadBakery, []string{
		"bread", "baguette", "roll", "bagel", "muffin", "cake", "pastry", "croissant",
		"bröd", "bagett", "bulle", "kaka", "bakverk",
	}},
	{Frozen, []string{"frozen", "ice cream", "pizza", "fryst", "glass"}},
	{Beverages, []string{
		"water", "juice", "soda", "coffee", "tea", "drink",
		"vatten", "juice", "läsk", "kaffe", "te", "dryck",
	}},
	{SnacksCandy, []string{
		"chips", "crackers", "popcorn", "nuts", "candy", "chocolate", "snack",
		"godis", "choklad",
	}},
	{Pantry, []string{
		"rice", "pasta", "flour", "sugar", "salt", "oil", "sauce", "spice",
		"ris", "mjöl", "socker", "olja", "sås", "krydda",
	}},
	{Household, []string{
		"paper", "towel", "tissue", "soap", "detergent", "cleaner", "sponge",
		"papper", "handduk", "tvål", "diskmedel", "rengöring", "svamp",
	}},
	{PersonalCare, []string{
		"shampoo", "toothpaste", "deodorant", "lotion", "cosmetic", "razor",
		"schampo", "tandkräm", "deodorant", "kräm", "kosmetik", "rakhyvel",
	}},
	{BabyKids, []string{
		"diaper", "baby food", "formula", "wipes", "baby", "infant",
		"blöja", "barnmat", "modersmjölksersättning", "våtservett",
	}},
	{PetSupplies, []string{
		"dog food", "cat food", "pet food", "cat litter", "pet",
		"hundmat", "kattmat", "kattströ",
	}},
	{Alcohol, []string{
		"beer", "wine", "liquor", "vodka", "whiskey", "rum", "gin",
		"öl", "vin", "sprit", "vodka", "whisky",
	}},
	{Other, nil},
}
