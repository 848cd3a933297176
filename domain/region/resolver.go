package region

import (
	"sort"

	"housepulse/domain/core"
)

// FallbackGroup is the group every unmapped region resolves to. Upstream
// occasionally introduces district names ahead of our table; those flows
// still have to land somewhere visible rather than fail the aggregation.
const FallbackGroup core.RegionID = "other"

// groupMembers lists the atomic districts belonging to each metro group.
// The table mirrors the administrative hierarchy served by the upstream
// market-data API: Seoul's 25 gu, the major Gyeonggi cities, and the
// district sets of the other metropolitan areas the dashboard covers.
var groupMembers = map[core.RegionID][]core.RegionID{
	"Seoul": {
		"Gangnam-gu", "Gangdong-gu", "Gangbuk-gu", "Gangseo-gu", "Gwanak-gu",
		"Gwangjin-gu", "Guro-gu", "Geumcheon-gu", "Nowon-gu", "Dobong-gu",
		"Dongdaemun-gu", "Dongjak-gu", "Mapo-gu", "Seodaemun-gu", "Seocho-gu",
		"Seongdong-gu", "Seongbuk-gu", "Songpa-gu", "Yangcheon-gu",
		"Yeongdeungpo-gu", "Yongsan-gu", "Eunpyeong-gu", "Jongno-gu",
		"Jung-gu", "Jungnang-gu",
	},
	"Gyeonggi": {
		"Suwon-si", "Seongnam-si", "Goyang-si", "Yongin-si", "Bucheon-si",
		"Ansan-si", "Anyang-si", "Namyangju-si", "Hwaseong-si", "Pyeongtaek-si",
		"Uijeongbu-si", "Siheung-si", "Paju-si", "Gimpo-si", "Gwangmyeong-si",
		"Gwangju-si", "Gunpo-si", "Hanam-si", "Osan-si", "Icheon-si",
	},
	"Incheon": {
		"Incheon-Junggu", "Incheon-Donggu", "Michuhol-gu", "Yeonsu-gu",
		"Namdong-gu", "Bupyeong-gu", "Gyeyang-gu", "Incheon-Seogu",
	},
	"Busan": {
		"Busan-Junggu", "Busan-Seogu", "Busan-Donggu", "Yeongdo-gu",
		"Busanjin-gu", "Dongnae-gu", "Busan-Namgu", "Busan-Bukgu",
		"Haeundae-gu", "Saha-gu", "Geumjeong-gu", "Busan-Gangseogu",
		"Yeonje-gu", "Suyeong-gu", "Sasang-gu",
	},
	"Daegu": {
		"Daegu-Junggu", "Daegu-Donggu", "Daegu-Seogu", "Daegu-Namgu",
		"Daegu-Bukgu", "Suseong-gu", "Dalseo-gu",
	},
	"Daejeon": {
		"Daejeon-Donggu", "Daejeon-Junggu", "Daejeon-Seogu", "Yuseong-gu",
		"Daedeok-gu",
	},
}

// groupOf is the flattened district -> group lookup, built once at package
// initialization and never written again. Group names map to themselves so
// already-grouped input passes through Resolve unchanged.
var groupOf map[core.RegionID]core.RegionID

func init() {
	groupOf = make(map[core.RegionID]core.RegionID)
	for group, members := range groupMembers {
		groupOf[group] = group
		for _, member := range members {
			groupOf[member] = group
		}
	}
}

// Resolve maps an atomic region to its metro group. It is a total function:
// group names resolve to themselves and unknown regions resolve to
// FallbackGroup, so callers never handle a miss.
func Resolve(id core.RegionID) core.RegionID {
	if group, ok := groupOf[id]; ok {
		return group
	}
	return FallbackGroup
}

// IsGroup reports whether id names a metro group (including FallbackGroup).
func IsGroup(id core.RegionID) bool {
	if id == FallbackGroup {
		return true
	}
	_, ok := groupMembers[id]
	return ok
}

// Groups returns the metro group names in sorted order, FallbackGroup
// included. The returned slice is a fresh copy on every call.
func Groups() []core.RegionID {
	groups := make([]core.RegionID, 0, len(groupMembers)+1)
	for group := range groupMembers {
		groups = append(groups, group)
	}
	groups = append(groups, FallbackGroup)
	sort.Slice(groups, func(i, j int) bool { return groups[i] < groups[j] })
	return groups
}

// MembersOf returns the atomic districts of a group in sorted order, or nil
// for an unknown group or FallbackGroup (whose membership is open-ended).
// The returned slice is a fresh copy on every call.
func MembersOf(group core.RegionID) []core.RegionID {
	members, ok := groupMembers[group]
	if !ok {
		return nil
	}
	out := make([]core.RegionID, len(members))
	copy(out, members)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
