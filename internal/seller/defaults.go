package seller

// seed builds a default registry entry from a gallery username.
func seed(id, displayName string) Seller {
	return Seller{
		ID:            id,
		DisplayName:   displayName,
		StorefrontURL: StorefrontURLFor(id),
		Enabled:       true,
	}
}

func seedWithWeidian(id, displayName, weidianID string) Seller {
	s := seed(id, displayName)
	s.WeidianID = weidianID
	return s
}

// Defaults returns the seeded seller table. A deployment with its own
// list overrides this through SELLERS_FILE.
func Defaults() []Seller {
	return []Seller{
		seed("topstoney", "TopStoney"),
		seed("loganhere", "Logan"),
		seed("steven-1989", "Singor"),
		seed("akdingji", "HenryReps"),
		seed("fakelab", "FakeLab"),
		seedWithWeidian("0832club", "0832club", "1625671124"),
		seedWithWeidian("husky-reps", "HuskyReps", "1621797300"),
		seed("ninjainstone", "NIS (Ninja In Stone)"),
		seed("matchless-ken", "LY Factory"),
		seed("cloyad0809", "CloyAd"),
		seed("zb25wt42", "Rick Owens Studio"),
		seed("aa800000000000", "8Billion"),
		seed("naisan23", "Naisan"),
		seed("zengshuaige", "Jelly"),
		seed("isshesam", "Brother Sam"),
		seed("3125tiger", "3125tiger"),
		seed("cool-kicks", "Cool Kicks"),
		seed("herbrother", "Her Brother (Holy Kicks)"),
		seed("906teletubbies", "CSJ (Cheap Shoe Jack)"),
		seed("a1luxurygoods", "A1 Luxury Goods"),
	}
}
