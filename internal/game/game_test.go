package game

import "testing"

func TestStageMapsCoverEveryMap(t *testing.T) {
	t.Parallel()

	seen := map[Map]Stage{}
	for _, s := range Stages() {
		for _, m := range StageMaps(s) {
			if prev, ok := seen[m]; ok {
				t.Errorf("%v listed under both %s and %s", m, prev, s)
			}
			seen[m] = s
			if m.Stage() != s {
				t.Errorf("%v.Stage() = %s, want %s", m, m.Stage(), s)
			}
		}
	}
	if len(seen) != NumMaps {
		t.Errorf("stages cover %d maps, want %d", len(seen), NumMaps)
	}
}

func TestMapString(t *testing.T) {
	t.Parallel()

	if got := Hospital15F.String(); got != "Hospital 15F" {
		t.Errorf("Hospital15F = %q", got)
	}
	if got := MushroomTower.String(); got != "Mushroom Tower" {
		t.Errorf("MushroomTower = %q", got)
	}
	if got := Map(99).String(); got != "map 99" {
		t.Errorf("Map(99) = %q", got)
	}
}
