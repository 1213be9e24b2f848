// Package nash trains a ridge regressor against a data provider who moves
// the features to pull predictions towards its own targets.
//
// The learner minimizes f(w, X) = Σ (X v + b - y)² + λ vᵀv while the
// attacker minimizes g(w, X) = Σ c_i (X_i v + b - z_i)² + ‖X - Xc‖². The
// attacker's response X_S(w) is approximated by unrolled gradient descent,
// and the learner follows the total derivative of f(w, X_S(w)) obtained by
// a reverse sweep over the unrolled steps:
//
//	backend := autodiff.New(cpu.New())
//	trainer, err := nash.NewTrainer(backend, nash.DefaultConfig(), logger)
//	result, err := trainer.Train(ctx, model, problem, rng)
//
// TrainRidge fits the non-adversarial baseline and Attack computes the
// attacker's closed-form best response to a fixed model.
package nash
