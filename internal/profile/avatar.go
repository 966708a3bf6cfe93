package profile

import (
	"fmt"
	"strings"
)

const DefaultAvatarSize = 65

type Avatar struct {
	ID     string `json:"id"`
	Gender Gender `json:"gender"`
	URL    string `json:"url"`
}

const avatarBase = "https://res.cloudinary.com/dopcbgrcs/image/upload/{{wh}},f_auto,q_auto/v1/apps/fitness-challenger/user-avatars/"

var catalogue = []Avatar{
	{ID: "fm1", Gender: GenderFemale, URL: avatarBase + "w023geq40prfw6hw8frd"},
	{ID: "fm2", Gender: GenderFemale, URL: avatarBase + "mzdfy0qlpmjffo1qp06d"},
	{ID: "fm3", Gender: GenderFemale, URL: avatarBase + "zcvkay8lcs0ry2qmmxwn"},
	{ID: "fm4", Gender: GenderFemale, URL: avatarBase + "m0j62jierfoktawrdcvs"},
	{ID: "fm5", Gender: GenderFemale, URL: avatarBase + "twpif9vqsm8yypr3qqb8"},
	{ID: "m1", Gender: GenderMale, URL: avatarBase + "vb7qjry383swjywpcfol"},
	{ID: "m2", Gender: GenderMale, URL: avatarBase + "qdk9j6ghezsusnbpa6jm"},
	{ID: "m3", Gender: GenderMale, URL: avatarBase + "ohuurr57mfkmwpxsmmmo"},
	{ID: "m4", Gender: GenderMale, URL: avatarBase + "lwzmznfxpzsxlwrwao8d"},
	{ID: "m5", Gender: GenderMale, URL: avatarBase + "ehoh1fgntm6cxvuujw3p"},
}

func findAvatar(id string) (Avatar, bool) {
	for _, a := range catalogue {
		if a.ID == id {
			return a, true
		}
	}
	return Avatar{}, false
}

func sized(a Avatar, size int) Avatar {
	if size <= 0 {
		size = DefaultAvatarSize
	}
	a.URL = strings.Replace(a.URL, "{{wh}}", fmt.Sprintf("w_%d,h_%d", size, size), 1)
	return a
}

// AvatarURL resolves an avatar id, falling back to the first catalogue entry.
func AvatarURL(id string, size int) string {
	a, ok := findAvatar(id)
	if !ok {
		a = catalogue[0]
	}
	return sized(a, size).URL
}

// Avatars lists the catalogue for a gender, or all of it when gender is empty.
func Avatars(gender Gender, size int) []Avatar {
	out := make([]Avatar, 0, len(catalogue))
	for _, a := range catalogue {
		if gender != "" && a.Gender != gender {
			continue
		}
		out = append(out, sized(a, size))
	}
	return out
}
