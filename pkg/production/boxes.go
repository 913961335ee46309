package production

import "stillhouse/domain"

// BoxesUsed is the number of full boxes a bottling run fills.
func BoxesUsed(bottledAmount int) int {
	if bottledAmount <= 0 {
		return 0
	}
	return bottledAmount / domain.BottlesPerBox
}
