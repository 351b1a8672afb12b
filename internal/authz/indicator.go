package authz

import "context"

// IndicatorPolicy guards indicators, which are globally administered
// reference data: any authenticated principal may view a single indicator,
// while every mutation requires ADMIN with no ownership dimension.
type IndicatorPolicy struct{}

func NewIndicatorPolicy() *IndicatorPolicy {
	return &IndicatorPolicy{}
}

func (pol *IndicatorPolicy) CanCreate(ctx context.Context, p Principal) (bool, error) {
	return HasRole(p.Profile, RoleAdmin), nil
}

func (pol *IndicatorPolicy) CanView(ctx context.Context, p Principal, id int64) (bool, error) {
	return true, nil
}

func (pol *IndicatorPolicy) CanViewAll(ctx context.Context, p Principal) (bool, error) {
	return canReadAny(p), nil
}

func (pol *IndicatorPolicy) CanUpdate(ctx context.Context, p Principal, id int64) (bool, error) {
	return HasRole(p.Profile, RoleAdmin), nil
}

func (pol *IndicatorPolicy) CanDelete(ctx context.Context, p Principal, id int64) (bool, error) {
	return HasRole(p.Profile, RoleAdmin), nil
}
