// Copyright (c) 2021 The CliqStaking developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/cliqproject/cliq-staking/api/utils"
	"github.com/cliqproject/cliq-staking/cliq"
	"github.com/cliqproject/cliq-staking/staking"
)

// Stakes exposes the staking service over REST.
type Stakes struct {
	staking *staking.Staking
	tokens  map[string]staking.Token
}

// New creates the stakes API. The listed tokens become reachable for fund
// parking by their symbol.
func New(stk *staking.Staking, tokens ...staking.Token) *Stakes {
	m := make(map[string]staking.Token, len(tokens))
	for _, tok := range tokens {
		m[tok.Symbol()] = tok
	}
	return &Stakes{staking: stk, tokens: m}
}

// convertError maps staking failure kinds onto http statuses.
func convertError(err error) error {
	switch staking.KindOf(err) {
	case staking.KindValidation:
		return utils.BadRequest(err)
	case staking.KindNotFound:
		return utils.NotFound(err)
	case staking.KindState, staking.KindLiquidity:
		return utils.Conflict(err)
	case staking.KindAuthorization:
		return utils.Forbidden(err)
	case staking.KindPaused:
		return utils.HTTPError(err, http.StatusServiceUnavailable)
	default:
		return err
	}
}

func parseUser(req *http.Request) (cliq.Address, error) {
	addr, err := cliq.ParseAddress(mux.Vars(req)["user"])
	if err != nil {
		return cliq.Address{}, utils.BadRequest(errors.WithMessage(err, "user"))
	}
	return *addr, nil
}

func parseIndex(req *http.Request) (uint64, error) {
	index, err := strconv.ParseUint(mux.Vars(req)["index"], 10, 64)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, "index"))
	}
	return index, nil
}

func (s *Stakes) handleGetSummary(w http.ResponseWriter, _ *http.Request) error {
	paused, err := s.staking.Paused()
	if err != nil {
		return err
	}
	total, err := s.staking.TotalStakedFunds()
	if err != nil {
		return err
	}
	pool, err := s.staking.RewardPoolBalance()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Summary{
		Name:             staking.Name,
		Address:          s.staking.Address(),
		Paused:           paused,
		TotalStakedFunds: (*math.HexOrDecimal256)(total),
		RewardPool:       (*math.HexOrDecimal256)(pool),
	})
}

func (s *Stakes) handleGetPackages(w http.ResponseWriter, _ *http.Request) error {
	n := s.staking.PackageLength()
	list := make([]*Package, 0, n)
	for i := 0; i < n; i++ {
		name, err := s.staking.PackageNames(i)
		if err != nil {
			return err
		}
		p, err := s.staking.Packages(name)
		if err != nil {
			return err
		}
		list = append(list, convertPackage(p))
	}
	return utils.WriteJSON(w, list)
}

func (s *Stakes) handleGetPackage(w http.ResponseWriter, req *http.Request) error {
	name := cliq.StringToName(mux.Vars(req)["name"])
	p, err := s.staking.Packages(name)
	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, convertPackage(p))
}

func (s *Stakes) handleGetStakes(w http.ResponseWriter, req *http.Request) error {
	user, err := parseUser(req)
	if err != nil {
		return err
	}
	n, err := s.staking.StakesLength(user)
	if err != nil {
		return err
	}
	list := make([]*Stake, 0, n)
	for i := uint64(0); i < n; i++ {
		st, err := s.staking.Stakes(user, i)
		if err != nil {
			return convertError(err)
		}
		list = append(list, convertStake(i, st))
	}
	return utils.WriteJSON(w, list)
}

func (s *Stakes) handleGetStake(w http.ResponseWriter, req *http.Request) error {
	user, err := parseUser(req)
	if err != nil {
		return err
	}
	index, err := parseIndex(req)
	if err != nil {
		return err
	}
	st, err := s.staking.Stakes(user, index)
	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, convertStake(index, st))
}

func (s *Stakes) handleGetReward(w http.ResponseWriter, req *http.Request) error {
	return s.handleReward(w, req, s.staking.CheckStakeReward)
}

func (s *Stakes) handleGetCliqReward(w http.ResponseWriter, req *http.Request) error {
	return s.handleReward(w, req, s.staking.CheckStakeCliqReward)
}

func (s *Stakes) handleReward(
	w http.ResponseWriter,
	req *http.Request,
	check func(cliq.Address, uint64) (*big.Int, uint64, error),
) error {
	user, err := parseUser(req)
	if err != nil {
		return err
	}
	index, err := parseIndex(req)
	if err != nil {
		return err
	}
	yield, timeDiff, err := check(user, index)
	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, &Reward{
		Yield:    (*math.HexOrDecimal256)(yield),
		TimeDiff: timeDiff,
	})
}

func (s *Stakes) handleGetBalance(w http.ResponseWriter, req *http.Request) error {
	user, err := parseUser(req)
	if err != nil {
		return err
	}
	total, err := s.staking.TotalStakedBalance(user)
	if err != nil {
		return err
	}
	has, err := s.staking.HasStaked(user)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &Balance{
		User:      user,
		Total:     (*math.HexOrDecimal256)(total),
		HasStaked: has,
	})
}

func (s *Stakes) handleCreateStake(w http.ResponseWriter, req *http.Request) error {
	var body StakeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	index, err := s.staking.Stake(
		body.User,
		(*big.Int)(body.Amount),
		cliq.StringToName(body.Package),
		staking.RewardType(body.RewardType),
	)
	if err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, &StakeResult{Index: index})
}

func (s *Stakes) handleUnstake(w http.ResponseWriter, req *http.Request) error {
	return s.handleWithdraw(w, req, s.staking.Unstake)
}

func (s *Stakes) handleForceWithdraw(w http.ResponseWriter, req *http.Request) error {
	return s.handleWithdraw(w, req, s.staking.ForceWithdraw)
}

func (s *Stakes) handleWithdraw(
	w http.ResponseWriter,
	req *http.Request,
	withdraw func(cliq.Address, uint64) error,
) error {
	user, err := parseUser(req)
	if err != nil {
		return err
	}
	index, err := parseIndex(req)
	if err != nil {
		return err
	}
	if err := withdraw(user, index); err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, utils.M{"withdrawn": true})
}

func (s *Stakes) handlePoolAdd(w http.ResponseWriter, req *http.Request) error {
	return s.handlePool(w, req, s.staking.AddStakedTokenReward)
}

func (s *Stakes) handlePoolRemove(w http.ResponseWriter, req *http.Request) error {
	return s.handlePool(w, req, s.staking.RemoveStakedTokenReward)
}

func (s *Stakes) handlePool(
	w http.ResponseWriter,
	req *http.Request,
	move func(cliq.Address, *big.Int) error,
) error {
	var body PoolRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := move(body.Caller, (*big.Int)(body.Amount)); err != nil {
		return convertError(err)
	}
	pool, err := s.staking.RewardPoolBalance()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"rewardPool": (*math.HexOrDecimal256)(pool)})
}

func (s *Stakes) handlePause(w http.ResponseWriter, req *http.Request) error {
	return s.handleSetPaused(w, req, s.staking.PauseStaking)
}

func (s *Stakes) handleUnpause(w http.ResponseWriter, req *http.Request) error {
	return s.handleSetPaused(w, req, s.staking.UnpauseStaking)
}

func (s *Stakes) handleSetPaused(w http.ResponseWriter, req *http.Request, set func(cliq.Address) error) error {
	var body CallerRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := set(body.Caller); err != nil {
		return convertError(err)
	}
	paused, err := s.staking.Paused()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, utils.M{"paused": paused})
}

func (s *Stakes) handlePark(w http.ResponseWriter, req *http.Request) error {
	var body ParkRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	tok, ok := s.tokens[body.Token]
	if !ok {
		return utils.BadRequest(errors.New("token not known"))
	}
	if err := s.staking.ParkFunds(body.Caller, tok, (*big.Int)(body.Amount)); err != nil {
		return convertError(err)
	}
	return utils.WriteJSON(w, utils.M{"parked": true})
}

func (s *Stakes) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleGetSummary))
	sub.Path("/packages").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleGetPackages))
	sub.Path("/packages/{name}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleGetPackage))
	sub.Path("/stakes").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(s.handleCreateStake))
	sub.Path("/stakes/{user}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleGetStakes))
	sub.Path("/stakes/{user}/{index}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleGetStake))
	sub.Path("/stakes/{user}/{index}/reward").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleGetReward))
	sub.Path("/stakes/{user}/{index}/cliq-reward").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleGetCliqReward))
	sub.Path("/stakes/{user}/{index}/unstake").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(s.handleUnstake))
	sub.Path("/stakes/{user}/{index}/force-withdraw").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(s.handleForceWithdraw))
	sub.Path("/balances/{user}").Methods(http.MethodGet).HandlerFunc(utils.WrapHandlerFunc(s.handleGetBalance))
	sub.Path("/pool/add").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(s.handlePoolAdd))
	sub.Path("/pool/remove").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(s.handlePoolRemove))
	sub.Path("/pause").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(s.handlePause))
	sub.Path("/unpause").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(s.handleUnpause))
	sub.Path("/park").Methods(http.MethodPost).HandlerFunc(utils.WrapHandlerFunc(s.handlePark))
}
