package db

import "gorm.io/gorm"

type Repositories struct {
	Members *MemberRepository
}

func NewRepositories(database *gorm.DB) *Repositories {
	return &Repositories{
		Members: NewMemberRepository(database),
	}
}
