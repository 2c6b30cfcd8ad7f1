package game_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"wars/game"
	"wars/mars"
	"wars/redcode"
)

func parse(src string) []redcode.Instruction {
	prog, err := redcode.ParseProgram(src)
	Expect(err).NotTo(HaveOccurred())
	return prog
}

var _ = Describe("Game", func() {
	var g *game.Game

	newGame := func(opts ...func(mars.Builder) mars.Builder) {
		b := mars.NewBuilder().WithMaxCycles(5000)
		for _, o := range opts {
			b = o(b)
		}
		m, err := b.Build()
		Expect(err).NotTo(HaveOccurred())
		g = game.New(m)
	}

	Describe("adding players", func() {
		BeforeEach(func() { newGame() })

		It("assigns fresh pins", func() {
			a, err := g.AddPlayer(parse("MOV.I $0, $1"), 0)
			Expect(err).NotTo(HaveOccurred())
			b, err := g.AddPlayer(parse("MOV.I $0, $1"), 4000)
			Expect(err).NotTo(HaveOccurred())
			Expect(a).NotTo(Equal(b))
		})

		It("rejects a pin conflict", func() {
			_, err := g.AddPlayerWithPin(parse("MOV.I $0, $1"), 0, 3)
			Expect(err).NotTo(HaveOccurred())
			_, err = g.AddPlayerWithPin(parse("MOV.I $0, $1"), 4000, 3)
			Expect(err).To(MatchError(mars.ErrPinConflict))
		})
	})

	Describe("deciding a winner", func() {
		BeforeEach(func() { newGame() })

		It("declares a lone player the winner without stepping", func() {
			pin, err := g.AddPlayer(parse("MOV.I $0, $1"), 0)
			Expect(err).NotTo(HaveOccurred())

			winner, ok := g.Winner()
			Expect(ok).To(BeTrue())
			Expect(winner).To(Equal(pin))
		})

		It("has no winner while two players live", func() {
			_, err := g.AddPlayer(parse("MOV.I $0, $1"), 0)
			Expect(err).NotTo(HaveOccurred())
			_, err = g.AddPlayer(parse("MOV.I $0, $1"), 4000)
			Expect(err).NotTo(HaveOccurred())

			_, ok := g.Winner()
			Expect(ok).To(BeFalse())
		})

		It("reports the survivor when the other player dies", func() {
			sitter, err := g.AddPlayer(parse("JMP $0, $0"), 0)
			Expect(err).NotTo(HaveOccurred())
			sleeper, err := g.AddPlayer(parse("DAT.F #0, #0"), 4000)
			Expect(err).NotTo(HaveOccurred())

			res := g.Run()
			Expect(res.Draw).To(BeFalse())
			Expect(res.Winner).To(Equal(sitter))
			Expect(res.Winner).NotTo(Equal(sleeper))
			Expect(res.Cycles).To(Equal(2)) // one jump, one death
		})

		It("reports the elimination as it happens", func() {
			_, err := g.AddPlayer(parse("JMP $0, $0"), 0)
			Expect(err).NotTo(HaveOccurred())
			sleeper, err := g.AddPlayer(parse("DAT.F #0, #0"), 4000)
			Expect(err).NotTo(HaveOccurred())

			_, eliminated := g.Step() // the sitter jumps
			Expect(eliminated).To(BeEmpty())

			ev, eliminated := g.Step() // the sleeper dies
			Expect(ev).To(Equal(mars.ThreadTerminated))
			Expect(eliminated).To(ConsistOf(sleeper))
		})
	})

	Describe("draws", func() {
		It("calls cycle exhaustion a draw", func() {
			newGame(func(b mars.Builder) mars.Builder { return b.WithMaxCycles(100) })

			_, err := g.AddPlayer(parse("MOV.I $0, $1"), 0)
			Expect(err).NotTo(HaveOccurred())
			_, err = g.AddPlayer(parse("MOV.I $0, $1"), 4000)
			Expect(err).NotTo(HaveOccurred())

			res := g.Run()
			Expect(res.Draw).To(BeTrue())
			Expect(res.Cycles).To(Equal(100))
			Expect(g.Mars().ProcessCount()).To(Equal(2), "both imps survive a draw")
		})

		It("gives the match to the last player with a live thread", func() {
			newGame()

			_, err := g.AddPlayer(parse("DAT.F #0, #0"), 0)
			Expect(err).NotTo(HaveOccurred())
			last, err := g.AddPlayer(parse("DAT.F #0, #0"), 4000)
			Expect(err).NotTo(HaveOccurred())

			// the first DAT dies in cycle 1, leaving the second player
			// alone before its own thread has run
			res := g.Run()
			Expect(res.Draw).To(BeFalse())
			Expect(res.Winner).To(Equal(last))
			Expect(g.Mars().ProcessCount()).To(Equal(1))
		})
	})

	Describe("a classic battle", func() {
		It("never lets the imp beat the dwarf", func() {
			newGame()

			dwarf, err := g.AddPlayer(parse(`
ADD.AB #4, $3
MOV.I  $2, @2
JMP    $-2
DAT.F  #0, #0
`), 0)
			Expect(err).NotTo(HaveOccurred())

			// the imp starts half an arena away from the dwarf
			_, err = g.AddPlayer(parse("MOV.I $0, $1"), 4000)
			Expect(err).NotTo(HaveOccurred())

			res := g.Run()
			if !res.Draw {
				Expect(res.Winner).To(Equal(dwarf))
			}
		})
	})
})
