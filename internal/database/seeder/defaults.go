package seeder

import "github.com/google/uuid"

// DemoPassword is the login password of every seeded account.
const DemoPassword = "password123"

func Defaults() []Seeder {
	return ForFixtures(DefaultFixtures())
}

// ForFixtures orders the seeders so companies exist before their jobs.
func ForFixtures(f Fixtures) []Seeder {
	return []Seeder{
		CompaniesSeeder{Items: f.Companies},
		UsersSeeder{Items: f.Users},
		JobsSeeder{Items: f.Jobs},
	}
}

// seedID derives a stable id so reruns update the same rows.
func seedID(kind, key string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("hirehub:"+kind+":"+key))
}
