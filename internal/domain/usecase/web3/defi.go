package web3

import (
	"context"
	"fmt"
	"strings"

	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/entity"
	errs "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/error"
	coreport "github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/core"
	"github.com/amirhossein-jamali/fintech-backoffice/internal/domain/port/usecase"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListProtocols returns the protocols positions can be opened in
func (s *Service) ListProtocols(ctx context.Context) ([]coreport.Protocol, error) {
	return s.oracle.Protocols(ctx)
}

// ListPositions returns the caller's active positions
func (s *Service) ListPositions(ctx context.Context, userID uuid.UUID) ([]*entity.DeFiPosition, error) {
	return s.uow.GetPositionRepository(ctx).ListByUser(ctx, userID, true)
}

// Stake opens a staking position or grows the active one for the same
// protocol and token
func (s *Service) Stake(ctx context.Context, userID uuid.UUID, cmd usecase.StakeCommand) (*entity.DeFiPosition, error) {
	if err := s.validator.Struct(cmd); err != nil {
		return nil, err
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(cmd.Amount))
	if err != nil || !amount.IsPositive() {
		return nil, &errs.ValidationError{Fields: map[string]string{"amount": "must be a positive decimal"}, Err: errs.ErrInvalidAmount}
	}

	protocol, err := s.findProtocol(ctx, cmd.Protocol, cmd.ChainID)
	if err != nil {
		return nil, err
	}

	var position *entity.DeFiPosition
	err = s.uow.Execute(ctx, func(txCtx context.Context) error {
		if _, err := s.uow.GetNetworkRepository(txCtx).GetActive(txCtx, cmd.ChainID); err != nil {
			return err
		}
		token, err := s.uow.GetTokenRepository(txCtx).FindActive(txCtx, cmd.ChainID, cmd.Token)
		if err != nil {
			return err
		}

		positions := s.uow.GetPositionRepository(txCtx)
		position, err = positions.FindActiveForUpdate(txCtx, userID, protocol.Name, token.ID)
		switch {
		case err == nil:
			position.AddStake(amount, protocol.APY, s.timeProvider.Now())
			position.TokenIn = token
			return positions.Update(txCtx, position)
		case isNotFound(err):
			position, err = entity.NewDeFiPosition(userID, protocol.Name, entity.PositionStaking, token, amount, protocol.APY, s.timeProvider.Now())
			if err != nil {
				return err
			}
			return positions.Create(txCtx, position)
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("DeFi position staked", map[string]any{
		"user_id":     userID.String(),
		"position_id": position.ID.String(),
		"protocol":    position.Protocol,
		"amount":      amount.String(),
		"amount_in":   position.AmountIn.String(),
	})
	return position, nil
}

// findProtocol matches a protocol by name or slug on a chain it supports
func (s *Service) findProtocol(ctx context.Context, name string, chainID int64) (coreport.Protocol, error) {
	protocols, err := s.oracle.Protocols(ctx)
	if err != nil {
		return coreport.Protocol{}, err
	}
	name = strings.TrimSpace(name)
	for _, p := range protocols {
		if !strings.EqualFold(p.Name, name) && !strings.EqualFold(p.Slug, name) {
			continue
		}
		for _, id := range p.ChainIDs {
			if id == chainID {
				return p, nil
			}
		}
		return coreport.Protocol{}, errs.NewValidationError("protocol", fmt.Sprintf("%s is not available on chain %d", p.Name, chainID))
	}
	return coreport.Protocol{}, errs.NewValidationError("protocol", fmt.Sprintf("unknown protocol %q", name))
}
